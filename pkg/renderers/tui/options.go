package tui

import (
	"context"
	"log/slog"

	"github.com/fotosfolio/go-bookingform/pkg/client"
)

// OutputFormat controls how Render serialises a page.
type OutputFormat string

const (
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits a JSON outline of the page.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Uploader stores an image for an owner and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, ownerID string, file client.File) (string, error)
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithUploader enables image fields during Fill.
func WithUploader(uploader Uploader) Option {
	return func(r *Renderer) {
		r.uploader = uploader
	}
}

// WithMaxRounds bounds how many times Fill re-prompts invalid fields before
// giving up with the validation error. Values below one are ignored.
func WithMaxRounds(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

// WithLogger sets the logger used for upload failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

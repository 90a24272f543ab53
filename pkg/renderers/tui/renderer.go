package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/fotosfolio/go-bookingform/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer draws pages as terminal text and fills forms interactively.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	uploader     Uploader
	maxRounds    int
	logger       *slog.Logger
	theme        Theme
}

// DefaultMaxRounds is how many prompt rounds Fill runs before returning the
// validation error.
const DefaultMaxRounds = 3

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, pretty output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatPrettyText,
		maxRounds:    DefaultMaxRounds,
		logger:       slog.Default(),
		theme:        Theme{InfoPrefix: "", ErrorPrefix: "! "},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Render writes a static outline of page without prompting.
func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outline, err := buildOutline(page)
	if err != nil {
		return nil, err
	}
	if r.outputFormat == OutputFormatJSON {
		out, err := json.MarshalIndent(outline, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode outline: %w", err)
		}
		return append(out, '\n'), nil
	}
	return []byte(outline.pretty(r.theme)), nil
}

type outline struct {
	Kind    string        `json:"kind"`
	Title   string        `json:"title"`
	Lead    string        `json:"lead,omitempty"`
	Notice  string        `json:"notice,omitempty"`
	Items   []outlineItem `json:"items,omitempty"`
	Action  string        `json:"action,omitempty"`
	HomeURL string        `json:"homeUrl,omitempty"`
}

type outlineItem struct {
	Kind     string   `json:"kind"`
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Required bool     `json:"required,omitempty"`
	Value    string   `json:"value,omitempty"`
	Options  []string `json:"options,omitempty"`
	Note     string   `json:"note,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func buildOutline(page render.Page) (outline, error) {
	switch page.Kind {
	case render.PageForm:
		o := outline{
			Kind:   string(page.Kind),
			Title:  page.Form.EventName,
			Lead:   plainText(page.Form.Description),
			Notice: page.Notice,
			Action: render.SubmitLabel,
		}
		if page.Submitting {
			o.Action = render.SubmittingLabel
		}
		for _, w := range page.Widgets {
			o.Items = append(o.Items, itemFor(w))
		}
		return o, nil
	case render.PageError:
		return outline{
			Kind:    string(page.Kind),
			Title:   page.Failure.Title,
			Lead:    page.Failure.Message,
			HomeURL: page.HomeURL,
		}, nil
	case render.PageSuccess:
		lead := render.SuccessLead
		if page.Receipt.BookingID != "" {
			lead += " Booking ID: " + page.Receipt.BookingID
		}
		return outline{
			Kind:    string(page.Kind),
			Title:   render.SuccessTitle,
			Lead:    lead,
			Notice:  page.Receipt.EventName,
			HomeURL: page.HomeURL,
		}, nil
	default:
		return outline{}, fmt.Errorf("tui: unknown page kind %q", page.Kind)
	}
}

func itemFor(w render.Widget) outlineItem {
	base := w.Base()
	item := outlineItem{ID: base.ID, Label: base.Label, Required: base.Required, Error: base.Error}
	switch v := w.(type) {
	case render.Heading:
		item.Kind = "heading"
	case render.Divider:
		item.Kind = "divider"
	case render.TextInput:
		item.Kind = v.InputType
		item.Value = v.Value
	case render.NumberInput:
		item.Kind = "number"
		if v.Currency {
			item.Kind = "amount"
		}
		item.Value = v.Value
	case render.TextArea:
		item.Kind = "textarea"
		item.Value = v.Value
	case render.Choice:
		item.Kind = "select"
		item.Value = v.Value
		item.Options = v.Options
	case render.Toggle:
		item.Kind = "toggle"
		item.Note = strings.TrimSpace(joinNonEmpty(" ", plainText(v.Text), v.Caption))
		if v.Checked {
			item.Value = "yes"
		}
	case render.Upload:
		item.Kind = "upload"
		item.Value = v.Value
		item.Note = v.Hint
		if v.UploadError != "" {
			item.Error = v.UploadError
		}
	case render.QRCode:
		item.Kind = "qrcode"
		item.Value = v.URL
		item.Note = v.Hint
		item.Error = v.QRError
	}
	return item
}

func (o outline) pretty(theme Theme) string {
	var b strings.Builder
	b.WriteString(o.Title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", max(len(o.Title), 3)))
	b.WriteByte('\n')
	if o.Lead != "" {
		b.WriteString(o.Lead)
		b.WriteByte('\n')
	}
	if o.Notice != "" {
		b.WriteString(theme.ErrorPrefix)
		b.WriteString(o.Notice)
		b.WriteByte('\n')
	}
	for _, item := range o.Items {
		switch item.Kind {
		case "heading":
			fmt.Fprintf(&b, "\n## %s\n", item.Label)
			continue
		case "divider":
			b.WriteString("\n---\n")
			continue
		}
		marker := " "
		if item.Required {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s [%s]", marker, item.Label, item.Kind)
		if item.Value != "" {
			fmt.Fprintf(&b, ": %s", item.Value)
		}
		b.WriteByte('\n')
		if len(item.Options) > 0 {
			fmt.Fprintf(&b, "    options: %s\n", strings.Join(item.Options, ", "))
		}
		if item.Note != "" {
			fmt.Fprintf(&b, "    %s%s\n", theme.InfoPrefix, item.Note)
		}
		if item.Error != "" {
			fmt.Fprintf(&b, "    %s%s\n", theme.ErrorPrefix, item.Error)
		}
	}
	if o.Action != "" {
		fmt.Fprintf(&b, "\n[%s]\n", o.Action)
	}
	if o.HomeURL != "" {
		fmt.Fprintf(&b, "\n%s\n", o.HomeURL)
	}
	return b.String()
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// plainText strips all markup from operator rich text.
func plainText(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}

func joinNonEmpty(sep string, parts ...string) string {
	keep := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}

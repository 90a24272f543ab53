// Package render turns a loaded booking form into renderer neutral widgets and
// defines the contract output renderers implement.
package render

import "context"

// Renderer converts a Page into a byte representation (HTML, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page) ([]byte, error)
}

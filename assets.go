package bookingform

import (
	"io/fs"

	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or override them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and upload script referenced by rendered
// pages.
//
// Typical mount:
//
//	r.PathPrefix("/assets/").Handler(
//	  http.StripPrefix("/assets/", http.FileServer(http.FS(bookingform.AssetsFS()))),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

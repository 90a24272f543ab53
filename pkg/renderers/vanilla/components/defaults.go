package components

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/render"
)

const (
	templatePrefix = "templates/components/"

	// UploadScriptKey is the asset key of the client script driving image
	// pickers. Renderers resolve it to a URL through their theme.
	UploadScriptKey = "vanilla.upload"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameHeading, Descriptor{
		Renderer: templateComponentRenderer("forms.heading", templatePrefix+"heading.tmpl"),
	})
	registry.MustRegister(NameDivider, Descriptor{
		Renderer: dividerRenderer,
	})
	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameNumber, Descriptor{
		Renderer: templateComponentRenderer("forms.number", templatePrefix+"number.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameToggle, Descriptor{
		Renderer: templateComponentRenderer("forms.toggle", templatePrefix+"toggle.tmpl"),
	})
	registry.MustRegister(NameUpload, Descriptor{
		Renderer: templateComponentRenderer("forms.upload", templatePrefix+"upload.tmpl"),
		Scripts:  []Script{{Src: UploadScriptKey, Defer: true}},
	})
	registry.MustRegister(NameQRCode, Descriptor{
		Renderer: templateComponentRenderer("forms.qrcode", templatePrefix+"qrcode.tmpl"),
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, widget render.Widget, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":  widget,
			"kind":   NameFor(widget),
			"config": data.Config,
		}
		if toggle, ok := widget.(render.Toggle); ok && strings.TrimSpace(toggle.Text) != "" {
			payload["text"] = sanitize(data, toggle.Text)
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func dividerRenderer(buf *bytes.Buffer, widget render.Widget, _ ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<hr`)
	if id := strings.TrimSpace(widget.Base().ID); id != "" {
		builder.WriteString(` id="`)
		builder.WriteString(html.EscapeString(ControlID(id)))
		builder.WriteString(`"`)
	}
	builder.WriteString(` class="bf-divider my-6 border-t border-gray-200" role="separator">`)
	buf.WriteString(builder.String())
	return nil
}

func sanitize(data ComponentData, text string) string {
	if data.Sanitize == nil {
		return html.EscapeString(text)
	}
	return data.Sanitize(text)
}

// ControlID returns the DOM id used for the control of element id.
func ControlID(id string) string {
	return "fg-" + strings.TrimSpace(id)
}

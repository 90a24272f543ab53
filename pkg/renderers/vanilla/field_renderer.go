package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/render/template"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
	config    map[string]any

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string, config map[string]any) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		config:         config,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(widget render.Widget) (string, error) {
	componentName := components.NameFor(widget)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, widget.Base().ID)
	}

	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
		Sanitize:      SanitizeRichText,
		Config:        r.config,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, widget, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, widget.Base().ID, err)
	}

	r.usedComponents[componentName] = struct{}{}

	return buildFieldMarkup(widget.Base(), componentName, control.String()), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

// buildFieldMarkup wraps a control with its label and inline error.
func buildFieldMarkup(field render.Common, componentName, control string) string {
	if componentHandlesChrome(componentName) {
		return control + "\n"
	}

	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	builder.WriteString(` mb-5`)
	if field.Error != "" {
		builder.WriteByte(' ')
		builder.WriteString(string(ClassInvalid))
	}
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-field-id="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString("\">\n")

	if labelSupportsFor(componentName) && strings.TrimSpace(field.Label) != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(components.ControlID(field.ID)))
		builder.WriteString(`" class="block mb-2 text-sm font-semibold text-gray-800">`)
		builder.WriteString(html.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(`<span class="text-red-500 ml-1">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if field.Error != "" {
		builder.WriteString(`    <p id="`)
		builder.WriteString(html.EscapeString(errorID(field.ID)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassError))
		builder.WriteString(` mt-1 text-sm text-red-500" role="alert">`)
		builder.WriteString(html.EscapeString(field.Error))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func errorID(id string) string {
	return components.ControlID(id) + "-error"
}

// componentHandlesChrome reports components that draw no label or error.
func componentHandlesChrome(componentName string) bool {
	switch componentName {
	case components.NameHeading, components.NameDivider, components.NameQRCode:
		return true
	default:
		return false
	}
}

// labelSupportsFor reports components whose label targets a single control.
// Toggles label their checkbox with the caption instead.
func labelSupportsFor(componentName string) bool {
	return componentName != components.NameToggle
}

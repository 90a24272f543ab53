package components

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/fotosfolio/go-bookingform/pkg/render"
	rendertemplate "github.com/fotosfolio/go-bookingform/pkg/render/template"
)

// Renderer writes the HTML for one widget into buf.
type Renderer func(buf *bytes.Buffer, widget render.Widget, data ComponentData) error

// ComponentData carries helpers and configuration for component renderers.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// ThemePartials maps partial keys (forms.input) onto override templates.
	ThemePartials map[string]string
	// Sanitize cleans rich text before it is emitted unescaped.
	Sanitize func(string) string
	Config   map[string]any
}

// Script describes JavaScript a component needs emitted once per page.
type Script struct {
	Src    string
	Inline string
	Defer  bool
	Module bool
}

// Descriptor bundles the renderer implementation with its asset dependencies.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

// Registry maps component names onto their descriptors. Names are case
// insensitive.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{components: map[string]Descriptor{}}
}

// Clone copies the registry so callers can override components without
// touching the shared defaults.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister is Register for static wiring; it panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor returns a copy of the descriptor registered as name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Render draws w with the component registered for it.
func (r *Registry) Render(buf *bytes.Buffer, w render.Widget, data ComponentData) error {
	name := NameFor(w)
	descriptor, ok := r.Descriptor(name)
	if !ok {
		return fmt.Errorf("components: no component registered for %T", w)
	}
	if err := descriptor.Renderer(buf, w, data); err != nil {
		return fmt.Errorf("components: render %q (%s): %w", name, w.Base().ID, err)
	}
	return nil
}

// Names lists the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.components))
}

// Assets collects what the components in names need: stylesheets and
// scripts, each listed once in the order first used.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	styleSeen := map[string]bool{}
	scriptSeen := map[string]bool{}
	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href != "" && !styleSeen[href] {
				styleSeen[href] = true
				stylesheets = append(stylesheets, href)
			}
		}
		for _, script := range descriptor.Scripts {
			if key := scriptKey(script); !scriptSeen[key] {
				scriptSeen[key] = true
				scripts = append(scripts, script)
			}
		}
	}
	return stylesheets, scripts
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:        src.Name,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
		Scripts:     slices.Clone(src.Scripts),
	}
}

func scriptKey(script Script) string {
	if script.Src != "" {
		return "src:" + script.Src
	}
	return "inline:" + script.Inline
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

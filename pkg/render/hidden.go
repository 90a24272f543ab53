package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// ModeField is the hidden input carrying the `type` query value through a
// form post.
const ModeField = "type"

// HiddenField represents a hidden input emitted alongside the visible widgets.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// ModeHidden returns the hidden input preserving mode across posts. Event
// booking is the default and needs none.
func ModeHidden(mode model.Mode) []HiddenField {
	if !mode.General() {
		return nil
	}
	return []HiddenField{Hidden(ModeField, model.GeneralQueryValue)}
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped and later fields win on collisions.
func SortedHiddenFields(fields ...HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	clean := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		clean[name] = field.Value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}

// FileFieldSuffix is appended to an upload element id to name its file input.
// The element id itself carries the uploaded URL.
const FileFieldSuffix = ".file"

// FileField returns the multipart part name of the file input for id.
func FileField(id string) string {
	return id + FileFieldSuffix
}

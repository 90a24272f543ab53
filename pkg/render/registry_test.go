package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type namedRenderer string

func (n namedRenderer) Name() string { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, Page) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistryDefaultIsFirstRegistered(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Default(); !errors.Is(err, ErrUnknownRenderer) {
		t.Fatalf("empty registry: expected ErrUnknownRenderer, got %v", err)
	}

	reg.MustRegister(namedRenderer("vanilla"))
	reg.MustRegister(namedRenderer("tui"))

	got, err := reg.Get("")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if got.Name() != "vanilla" {
		t.Fatalf("default = %q, want vanilla", got.Name())
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicatesAndUnknownNames(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(namedRenderer("vanilla"))

	if err := reg.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate name to be rejected")
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
	if _, err := reg.Get("pdf"); !errors.Is(err, ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}

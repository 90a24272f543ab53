package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/testsupport"
)

// scriptedDriver answers prompts by the label their message starts with.
type scriptedDriver struct {
	mu       sync.Mutex
	inputs   map[string][]string
	texts    map[string][]string
	selects  map[string][]int
	confirms map[string][]bool
	asked    []string
	infos    []string
	fail     error
}

func (s *scriptedDriver) next(kind, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.asked = append(s.asked, message)
	var keys []string
	switch kind {
	case "input":
		keys = mapKeys(s.inputs)
	case "text":
		keys = mapKeys(s.texts)
	case "select":
		keys = mapKeys(s.selects)
	case "confirm":
		keys = mapKeys(s.confirms)
	}
	for _, key := range keys {
		if strings.HasPrefix(message, key) {
			return key, nil
		}
	}
	return "", errors.New("no answer scripted for " + kind + " " + message)
}

func mapKeys[V any](m map[string][]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func shift[V any](m map[string][]V, key string) V {
	queue := m[key]
	var v V
	if len(queue) == 0 {
		return v
	}
	v = queue[0]
	if len(queue) > 1 {
		m[key] = queue[1:]
	}
	return v
}

func (s *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	key, err := s.next("input", cfg.Message)
	if err != nil {
		return "", err
	}
	return shift(s.inputs, key), nil
}

func (s *scriptedDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	key, err := s.next("text", cfg.Message)
	if err != nil {
		return "", err
	}
	return shift(s.texts, key), nil
}

func (s *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	key, err := s.next("select", cfg.Message)
	if err != nil {
		return -1, err
	}
	return shift(s.selects, key), nil
}

func (s *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	key, err := s.next("confirm", cfg.Message)
	if err != nil {
		return false, err
	}
	return shift(s.confirms, key), nil
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
	return nil
}

func (s *scriptedDriver) countAsked(prefix string) int {
	n := 0
	for _, m := range s.asked {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}

func (s *scriptedDriver) sawInfo(fragment string) bool {
	for _, m := range s.infos {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}

func TestRenderPrettyOutline(t *testing.T) {
	form := testsupport.WeddingForm()
	snap := render.Snapshot{
		Values: model.Values{"name": model.String("Ada")},
		Errors: model.Errors{"email": "This field is required"},
	}
	widgets := render.Widgets(form, snap, render.Env{}, model.ModeGeneralInformation)
	page := render.FormPage(form, model.ModeGeneralInformation, "/booking/x", widgets)

	r, err := New(WithPromptDriver(&scriptedDriver{}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.Render(context.Background(), page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"Wedding Photography\n",
		"Tell us about your big day.",
		"## Contact details",
		"* Full Name [text]: Ada",
		"* Email [email]",
		"! This field is required",
		"  Package [select]",
		"options: Basic, Premium",
		"Deposits are non-refundable.",
		"[Submit Booking]",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected outline to contain %q\n%s", want, text)
		}
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestRenderJSONOutline(t *testing.T) {
	r, err := New(WithPromptDriver(&scriptedDriver{}), WithOutputFormat(OutputFormatJSON))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.Render(context.Background(), render.SuccessPage("bk-1", "Gala", ""))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded outline
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Title != render.SuccessTitle || !strings.Contains(decoded.Lead, "bk-1") || decoded.Notice != "Gala" {
		t.Fatalf("unexpected outline: %+v", decoded)
	}
	if r.ContentType() != "application/json" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestRenderErrorOutline(t *testing.T) {
	r, _ := New(WithPromptDriver(&scriptedDriver{}))
	out, err := r.Render(context.Background(), render.ErrorPage("Form not found", "https://fotosfolio.com"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(out), "Form Not Found\n") || !strings.Contains(string(out), "https://fotosfolio.com") {
		t.Fatalf("unexpected outline:\n%s", out)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r, _ := New(WithPromptDriver(&scriptedDriver{}))
	if _, err := r.Render(context.Background(), render.Page{Kind: "nope"}); err == nil {
		t.Fatalf("expected error")
	}
}

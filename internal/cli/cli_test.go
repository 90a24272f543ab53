package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/tui"
	"github.com/fotosfolio/go-bookingform/pkg/testsupport"
)

// answerDriver answers inputs by label, confirms everything and leaves
// selects on their placeholder.
type answerDriver struct {
	inputs map[string]string
	infos  []string
}

func (d *answerDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	return d.inputs[strings.TrimSuffix(cfg.Message, " *")], nil
}

func (d *answerDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *answerDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, nil
}

func (d *answerDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", nil
}

func (d *answerDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func run(t *testing.T, opts *rootOptions, args ...string) (string, error) {
	t.Helper()
	if opts.logOut == nil {
		opts.logOut = io.Discard
	}
	cmd := newRootCmd(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderHTMLToStdout(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())

	out, err := run(t, &rootOptions{}, "render", "wedding-2024", "--api", api.URL)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "Wedding Photography", `action="/booking/wedding-2024"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderTerminalJSONToFile(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())
	path := filepath.Join(t.TempDir(), "form.json")

	_, err := run(t, &rootOptions{}, "render", "wedding-2024", "--general", "-r", "tui", "--format", "json", "-o", path, "--api", api.URL)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var outline map[string]any
	if err := json.Unmarshal(data, &outline); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}
	if strings.Contains(string(data), "payment_screenshot") {
		t.Fatalf("general outline should not include the payment upload")
	}
}

func TestRenderMissingFormPrintsErrorScreen(t *testing.T) {
	api := testsupport.NewBookingAPI(t)

	out, err := run(t, &rootOptions{}, "render", "missing", "--api", api.URL)
	if !errors.Is(err, apierrors.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if !strings.Contains(out, "Form Not Found") {
		t.Fatalf("expected error screen, got:\n%s", out)
	}
}

func TestRenderUnknownRenderer(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())

	if _, err := run(t, &rootOptions{}, "render", "wedding-2024", "-r", "pdf", "--api", api.URL); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestFillGeneralSubmits(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())
	driver := &answerDriver{inputs: map[string]string{
		"Full Name":  "Ada Lovelace",
		"Email":      "ada@example.com",
		"Event Date": "2024-03-15",
	}}
	opts := &rootOptions{termOpts: []tui.Option{tui.WithPromptDriver(driver)}}

	out, err := run(t, opts, "fill", "wedding-2024", "--general", "--api", api.URL)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !strings.Contains(out, "Booking submitted: bk-1") {
		t.Fatalf("unexpected output %q", out)
	}
	subs := api.Submissions()
	if len(subs) != 1 || subs[0].Path != "/event-management/information-forms" {
		t.Fatalf("submissions = %+v", subs)
	}
}

func TestConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9000\"\napiBaseUrl: https://api.example\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	opts := &rootOptions{logOut: io.Discard}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--config", path, "--api", "https://override.example"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, _, err := opts.load(cmd)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9000" || cfg.APIBaseURL != "https://override.example" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

// Package testsupport provides fixtures, golden helpers and an in-process fake
// of the booking API shared by the package tests.
package testsupport

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// WeddingForm returns an event booking form exercising most element types.
func WeddingForm() model.FormConfig {
	return model.FormConfig{
		ID:          "wedding-2024",
		EventName:   "Wedding Photography",
		EventType:   "general",
		Description: "Tell us about your big day.",
		Logo:        "https://cdn.example/logo.png",
		Theme:       model.DefaultTheme(),
		IsActive:    true,
		OwnerID:     "owner-42",
		Elements: []model.FormElement{
			{ID: "h-contact", Type: model.ElementHeading, Label: "Contact details"},
			{ID: "name", Type: model.ElementText, Label: "Full Name", Required: true},
			{ID: "email", Type: model.ElementEmail, Label: "Email", Required: true},
			{ID: "phone", Type: model.ElementPhone, Label: "Phone Number"},
			{ID: "hr-1", Type: model.ElementDivider},
			{ID: "date", Type: model.ElementDate, Label: "Event Date", Required: true},
			{ID: "start", Type: model.ElementTime, Label: "Start Time"},
			{ID: "guests", Type: model.ElementNumber, Label: "Guest Count"},
			{ID: "package", Type: model.ElementSelect, Label: "Package", Options: []string{"Basic", "Premium"}},
			{ID: "notes", Type: model.ElementTextarea, Label: "Notes"},
			{ID: "h-pay", Type: model.ElementHeading, Label: "Payment"},
			{ID: "deposit", Type: model.ElementAmount, Label: "Deposit"},
			{ID: "terms", Type: model.ElementAgreement, Label: "Terms", Required: true, AgreementText: "<p>Deposits are <strong>non-refundable</strong>.</p>"},
			{ID: "news", Type: model.ElementCheckbox, Label: "Newsletter", CheckboxLabel: "Send me offers"},
		},
	}
}

// ValidWeddingValues answers every required WeddingForm field, including the
// payment screenshot.
func ValidWeddingValues() model.Values {
	return model.Values{
		"name":                    model.String("Ada Lovelace"),
		"email":                   model.String("ada@example.com"),
		"date":                    model.String("2024-03-15"),
		"terms":                   model.Bool(true),
		model.PaymentScreenshotID: model.String("https://cdn.example/shot.png"),
	}
}

// MustReadGoldenString returns the content of the golden file at path.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	return string(data)
}

// CaptureTemplateOutput runs render against a buffer and returns the rendered
// string along with what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

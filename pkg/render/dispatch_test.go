package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

func TestDispatchDefaults(t *testing.T) {
	theme := model.DefaultTheme()
	env := Env{Theme: theme, OwnerID: "owner-9"}

	cases := []struct {
		name string
		el   model.FormElement
		fs   FieldState
		want Widget
	}{
		{
			name: "heading without label",
			el:   model.FormElement{ID: "h", Type: model.ElementHeading, Required: true},
			want: Heading{Common: Common{ID: "h", Type: model.ElementHeading, Label: "Headline", Theme: theme}},
		},
		{
			name: "text placeholder from label",
			el:   model.FormElement{ID: "n", Type: model.ElementText, Label: "Full Name", Required: true},
			fs:   FieldState{Value: model.String("Ada"), Error: "oops"},
			want: TextInput{
				Common:      Common{ID: "n", Type: model.ElementText, Label: "Full Name", Required: true, Error: "oops", Theme: theme},
				InputType:   "text",
				Placeholder: "Enter full name",
				Value:       "Ada",
			},
		},
		{
			name: "phone input type",
			el:   model.FormElement{ID: "p", Type: model.ElementPhone, Label: "Phone", Placeholder: "+1 555"},
			want: TextInput{
				Common:      Common{ID: "p", Type: model.ElementPhone, Label: "Phone", Theme: theme},
				InputType:   "tel",
				Placeholder: "+1 555",
			},
		},
		{
			name: "amount placeholder",
			el:   model.FormElement{ID: "a", Type: model.ElementAmount, Label: "Deposit"},
			fs:   FieldState{Value: model.Number(12.5)},
			want: NumberInput{
				Common:      Common{ID: "a", Type: model.ElementAmount, Label: "Deposit", Theme: theme},
				Placeholder: "0.00",
				Value:       "12.5",
				Currency:    true,
			},
		},
		{
			name: "payment selector defaults",
			el:   model.FormElement{ID: "pm", Type: model.ElementPayment, Label: "Method"},
			want: Choice{
				Common:      Common{ID: "pm", Type: model.ElementPayment, Label: "Method", Theme: theme},
				Placeholder: "Select Payment Method",
				Options:     []string{"Credit Card", "PayPal", "Bank Transfer"},
			},
		},
		{
			name: "agreement falls back to placeholder text",
			el:   model.FormElement{ID: "t", Type: model.ElementTerms, Placeholder: "<p>Be nice</p>"},
			fs:   FieldState{Value: model.Bool(true)},
			want: Toggle{
				Common:  Common{ID: "t", Type: model.ElementTerms, Label: "Agreement", Theme: theme},
				Caption: "I agree to the terms and conditions",
				Text:    "<p>Be nice</p>",
				Checked: true,
			},
		},
		{
			name: "checkbox caption",
			el:   model.FormElement{ID: "c", Type: model.ElementCheckbox, CheckboxLabel: "Send me news"},
			want: Toggle{
				Common:  Common{ID: "c", Type: model.ElementCheckbox, Label: "Checkbox", Theme: theme},
				Caption: "Send me news",
			},
		},
		{
			name: "qr code carries owner",
			el:   model.FormElement{ID: "q", Type: model.ElementQRCode},
			want: QRCode{
				Common:  Common{ID: "q", Type: model.ElementQRCode, Label: "Payment Information", Theme: theme},
				OwnerID: "owner-9",
				Hint:    QRHint,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Dispatch(tc.el, tc.fs, env)
			if !ok {
				t.Fatalf("expected widget")
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("widget mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchUploadCarriesSizeLimit(t *testing.T) {
	el := model.FormElement{ID: model.PaymentScreenshotID, Type: model.ElementPaymentUpload, Label: "Screenshot"}

	got, _ := Dispatch(el, FieldState{}, Env{})
	if up := got.(Upload); up.MaxBytes != model.DefaultMaxUploadBytes || up.MaxSize != "5MB" {
		t.Fatalf("default limit = %d %q", up.MaxBytes, up.MaxSize)
	}

	got, _ = Dispatch(el, FieldState{}, Env{MaxUploadBytes: 2 << 20})
	if up := got.(Upload); up.MaxBytes != 2<<20 || up.MaxSize != "2MB" {
		t.Fatalf("configured limit = %d %q", up.MaxBytes, up.MaxSize)
	}
}

func TestDispatchUnknownTypeLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got, ok := Dispatch(model.FormElement{ID: "x", Type: "hologram"}, FieldState{}, Env{Logger: logger})
	if ok || got != nil {
		t.Fatalf("expected unknown type to be skipped, got %#v", got)
	}
	if !strings.Contains(buf.String(), "unknown form element type") || !strings.Contains(buf.String(), "hologram") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}

func TestWidgetsEventModeAppendsPaymentBlock(t *testing.T) {
	form := model.FormConfig{
		OwnerID: "owner-9",
		Theme:   model.DefaultTheme(),
		Elements: []model.FormElement{
			{ID: "n", Type: model.ElementText, Label: "Name"},
			{ID: "x", Type: "hologram"},
			{ID: "d", Type: model.ElementDivider},
		},
	}
	snap := Snapshot{Errors: model.Errors{model.PaymentScreenshotID: "Payment screenshot is required"}}
	widgets := Widgets(form, snap, Env{PaymentQR: "https://cdn.example/qr.png", Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}, model.ModeEventBooking)

	ids := widgetIDs(widgets)
	want := []string{"n", "d", model.PaymentQRID, model.PaymentScreenshotID}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("widget order mismatch (-want +got):\n%s", diff)
	}
	qr, ok := widgets[2].(QRCode)
	if !ok || qr.URL != "https://cdn.example/qr.png" || qr.OwnerID != "owner-9" {
		t.Fatalf("unexpected qr widget %#v", widgets[2])
	}
	upload, ok := widgets[3].(Upload)
	if !ok || !upload.Payment || !upload.Required || upload.Error != "Payment screenshot is required" {
		t.Fatalf("unexpected upload widget %#v", widgets[3])
	}
}

func TestWidgetsGeneralModeFiltersPayment(t *testing.T) {
	form := model.FormConfig{
		Elements: []model.FormElement{
			{ID: "h1", Type: model.ElementHeading, Label: "About you"},
			{ID: "h2", Type: model.ElementHeading, Label: "PAYMENT details"},
			{ID: "qr", Type: model.ElementQRCode},
			{ID: "up", Type: model.ElementPaymentUpload, Label: "Proof"},
			{ID: "e", Type: model.ElementEmail, Label: "Email"},
		},
	}
	widgets := Widgets(form, Snapshot{}, Env{}, model.ModeGeneralInformation)
	if diff := cmp.Diff([]string{"h1", "e"}, widgetIDs(widgets)); diff != "" {
		t.Fatalf("widget ids mismatch (-want +got):\n%s", diff)
	}
}

func TestWidgetsFocusFirstInvalid(t *testing.T) {
	form := model.FormConfig{Elements: []model.FormElement{
		{ID: "a", Type: model.ElementText, Label: "A"},
		{ID: "b", Type: model.ElementText, Label: "B"},
	}}
	widgets := Widgets(form, Snapshot{}, Env{FirstInvalid: "b"}, model.ModeGeneralInformation)
	if widgets[0].Base().Focus || !widgets[1].Base().Focus {
		t.Fatalf("expected focus on b only")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		t    model.ElementType
		raw  string
		want model.Value
	}{
		{model.ElementCheckbox, "on", model.Bool(true)},
		{model.ElementAgreement, "", model.Bool(false)},
		{model.ElementNumber, "42", model.Number(42)},
		{model.ElementAmount, " ", model.String("")},
		{model.ElementNumber, "abc", model.String("abc")},
		{model.ElementNumber, "NaN", model.String("NaN")},
		{model.ElementText, " hi ", model.String(" hi ")},
	}
	for _, tc := range cases {
		if got := ParseValue(tc.t, tc.raw); !got.Equal(tc.want) {
			t.Fatalf("ParseValue(%s, %q) = %v, want %v", tc.t, tc.raw, got, tc.want)
		}
	}
}

func widgetIDs(widgets []Widget) []string {
	ids := make([]string, 0, len(widgets))
	for _, w := range widgets {
		ids = append(ids, w.Base().ID)
	}
	return ids
}

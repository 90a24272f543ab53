package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

func TestValidateForm_SkipsDecorative(t *testing.T) {
	elements := []model.FormElement{
		{ID: "h", Type: model.ElementHeading, Label: "Details", Required: true},
		{ID: "hr", Type: model.ElementDivider, Required: true},
		{ID: "name", Type: model.ElementText, Label: "Name", Required: true},
		{ID: "email", Type: model.ElementEmail, Label: "Email"},
	}
	values := model.Values{"email": model.String("broken")}

	got := ValidateForm(values, elements)
	want := model.Errors{
		"name":  MsgRequired,
		"email": MsgInvalidEmail,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateForm_ValidValuesProduceNoEntries(t *testing.T) {
	elements := []model.FormElement{
		{ID: "name", Type: model.ElementText, Required: true},
		{ID: "pkg", Type: model.ElementSelect, Required: true, Options: []string{"Gold", "Silver"}},
	}
	values := model.Values{"name": model.String("Ada"), "pkg": model.String("Gold")}
	if got := ValidateForm(values, elements); len(got) != 0 {
		t.Fatalf("expected no errors, got %v", got)
	}
}

func TestValidateSubmission_EventModeRequiresScreenshot(t *testing.T) {
	elements := []model.FormElement{{ID: "name", Type: model.ElementText, Required: true}}
	values := model.Values{"name": model.String("Ada")}

	got := ValidateSubmission(values, elements, model.ModeEventBooking)
	want := model.Errors{model.PaymentScreenshotID: MsgPaymentScreenshot}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	values[model.PaymentScreenshotID] = model.String("https://cdn.example/shot.png")
	if got := ValidateSubmission(values, elements, model.ModeEventBooking); len(got) != 0 {
		t.Fatalf("expected no errors once screenshot present, got %v", got)
	}
}

func TestValidateSubmission_GeneralModeSkipsPayment(t *testing.T) {
	elements := []model.FormElement{
		{ID: "name", Type: model.ElementText, Required: true},
		{ID: "proof", Type: model.ElementPaymentUpload, Required: true},
	}
	values := model.Values{"name": model.String("Ada")}

	if got := ValidateSubmission(values, elements, model.ModeGeneralInformation); len(got) != 0 {
		t.Fatalf("expected no errors in general mode, got %v", got)
	}
}

func TestFirstInvalid_SchemaOrder(t *testing.T) {
	elements := []model.FormElement{
		{ID: "a", Type: model.ElementText},
		{ID: "b", Type: model.ElementText},
		{ID: "c", Type: model.ElementText},
	}
	errs := model.Errors{"c": MsgRequired, model.PaymentScreenshotID: MsgPaymentScreenshot, "b": MsgRequired}
	if got := FirstInvalid(errs, elements); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := FirstInvalid(model.Errors{model.PaymentScreenshotID: MsgPaymentScreenshot}, elements); got != model.PaymentScreenshotID {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if got := FirstInvalid(nil, elements); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

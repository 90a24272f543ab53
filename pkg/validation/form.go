package validation

import "github.com/fotosfolio/go-bookingform/pkg/model"

// ValidateForm runs ValidateField over every input element and collects the
// failures. Decorative elements never produce entries.
func ValidateForm(values model.Values, elements []model.FormElement) model.Errors {
	errs := make(model.Errors)
	for _, el := range elements {
		if el.Type.Decorative() {
			continue
		}
		if msg := ValidateField(el.Type, values.Get(el.ID), el.Required, el.Options); msg != "" {
			errs[el.ID] = msg
		}
	}
	return errs
}

// ValidateSubmission validates what the filler actually sees for mode. Event
// booking adds the payment screenshot requirement, which is keyed by
// model.PaymentScreenshotID and is not part of the declared schema. General
// information forms hide payment elements, so they are not validated.
func ValidateSubmission(values model.Values, elements []model.FormElement, mode model.Mode) model.Errors {
	if mode.General() {
		return ValidateForm(values, model.VisibleElements(elements, mode))
	}

	errs := ValidateForm(values, elements)
	if values.Get(model.PaymentScreenshotID).IsBlank() {
		errs[model.PaymentScreenshotID] = MsgPaymentScreenshot
	}
	return errs
}

// FirstInvalid returns the id of the first failing field in rendering order:
// declared elements first, then the payment screenshot.
func FirstInvalid(errs model.Errors, elements []model.FormElement) string {
	if len(errs) == 0 {
		return ""
	}
	for _, el := range elements {
		if _, ok := errs[el.ID]; ok {
			return el.ID
		}
	}
	if _, ok := errs[model.PaymentScreenshotID]; ok {
		return model.PaymentScreenshotID
	}
	return ""
}

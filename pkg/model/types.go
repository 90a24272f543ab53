package model

import "strings"

// ElementType is the closed enumeration of element kinds the booking API emits.
type ElementType string

const (
	ElementText          ElementType = "text"
	ElementEmail         ElementType = "email"
	ElementPhone         ElementType = "phone"
	ElementNumber        ElementType = "number"
	ElementTextarea      ElementType = "textarea"
	ElementDate          ElementType = "date"
	ElementSelect        ElementType = "select"
	ElementHeading       ElementType = "heading"
	ElementDivider       ElementType = "divider"
	ElementImage         ElementType = "image"
	ElementAgreement     ElementType = "agreement"
	ElementTerms         ElementType = "terms"
	ElementCheckbox      ElementType = "checkbox"
	ElementQRCode        ElementType = "qrcode"
	ElementPaymentUpload ElementType = "paymentUpload"
	ElementTime          ElementType = "time"
	ElementAmount        ElementType = "amount"
	ElementPayment       ElementType = "payment"
)

// ElementTypes lists every known element type in glossary order.
var ElementTypes = []ElementType{
	ElementText, ElementEmail, ElementPhone, ElementNumber, ElementTextarea,
	ElementDate, ElementSelect, ElementHeading, ElementDivider, ElementImage,
	ElementAgreement, ElementTerms, ElementCheckbox, ElementQRCode,
	ElementPaymentUpload, ElementTime, ElementAmount, ElementPayment,
}

// Known reports whether t is part of the enumeration.
func (t ElementType) Known() bool {
	for _, candidate := range ElementTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Decorative reports whether the element carries no user input.
func (t ElementType) Decorative() bool {
	return t == ElementHeading || t == ElementDivider
}

// PaymentOnly reports whether the element only makes sense for paid bookings.
func (t ElementType) PaymentOnly() bool {
	return t == ElementQRCode || t == ElementPaymentUpload
}

// Toggle reports whether the element collects a boolean.
func (t ElementType) Toggle() bool {
	switch t {
	case ElementAgreement, ElementTerms, ElementCheckbox:
		return true
	default:
		return false
	}
}

// Numeric reports whether the element collects a number.
func (t ElementType) Numeric() bool {
	return t == ElementNumber || t == ElementAmount
}

// Upload reports whether the element value is the URL of an uploaded image.
func (t ElementType) Upload() bool {
	return t == ElementImage || t == ElementPaymentUpload
}

// FormElement is one declarative unit of the form. Field tags follow the
// booking API JSON contract.
type FormElement struct {
	ID            string      `json:"id" validate:"required"`
	Type          ElementType `json:"type" validate:"required"`
	Label         string      `json:"label,omitempty"`
	Placeholder   string      `json:"placeholder,omitempty"`
	Required      bool        `json:"required,omitempty"`
	Options       []string    `json:"options,omitempty"`
	AgreementText string      `json:"agreementText,omitempty"`
	CheckboxLabel string      `json:"checkboxLabel,omitempty"`
}

// FormConfig is the normalised form descriptor. It is read-only once loaded.
type FormConfig struct {
	ID          string        `json:"id"`
	EventName   string        `json:"eventName"`
	EventType   string        `json:"eventType,omitempty"`
	Description string        `json:"description,omitempty"`
	Logo        string        `json:"logo,omitempty"`
	Theme       Theme         `json:"theme"`
	Elements    []FormElement `json:"formElements"`
	IsActive    bool          `json:"isActive"`
	IsDefault   bool          `json:"isDefault,omitempty"`
	OwnerID     string        `json:"photographerId"`
}

// Element returns the element with the supplied id.
func (c FormConfig) Element(id string) (FormElement, bool) {
	for _, el := range c.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return FormElement{}, false
}

// Mode selects the submission variant.
type Mode string

const (
	ModeEventBooking       Mode = "event-booking"
	ModeGeneralInformation Mode = "general-information"
)

// GeneralQueryValue is the `type` query parameter value selecting
// ModeGeneralInformation.
const GeneralQueryValue = "general"

// ModeFromQuery maps the `type` query parameter onto a Mode. Anything other
// than "general" selects event booking.
func ModeFromQuery(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), GeneralQueryValue) {
		return ModeGeneralInformation
	}
	return ModeEventBooking
}

// General reports whether m is the general information variant.
func (m Mode) General() bool {
	return m == ModeGeneralInformation
}

// Identifiers of the payment block appended after the declared elements in
// event booking mode. The screenshot requirement lives outside the schema.
const (
	PaymentQRID          = "payment-qr"
	PaymentQRLabel       = "Payment Information"
	PaymentScreenshotID  = "payment_screenshot"
	PaymentScreenshotKey = "QRpayment"
	PaymentUploadLabel   = "Upload Payment Screenshot"
)

// Errors maps element ids to a human readable message.
type Errors map[string]string

// Clone returns a copy of e. A nil map clones to an empty one.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for id, msg := range e {
		out[id] = msg
	}
	return out
}

// VisibleElements returns the declared elements shown for mode, in schema
// order. General information forms drop payment-only elements and any heading
// whose label mentions payment.
func VisibleElements(elements []FormElement, mode Mode) []FormElement {
	if !mode.General() {
		return elements
	}
	out := make([]FormElement, 0, len(elements))
	for _, el := range elements {
		if el.Type.PaymentOnly() {
			continue
		}
		if el.Type == ElementHeading && strings.Contains(strings.ToLower(el.Label), "payment") {
			continue
		}
		out = append(out, el)
	}
	return out
}

package render

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// Labels and placeholders applied when the schema leaves them blank.
const (
	DefaultHeadingLabel      = "Headline"
	DefaultAgreementLabel    = "Agreement"
	DefaultCheckboxLabel     = "Checkbox"
	DefaultToggleCaption     = "I agree to the terms and conditions"
	DefaultSelectPlaceholder = "Select an option"
	DefaultPaymentPrompt     = "Select Payment Method"
	DefaultAmountPlaceholder = "0.00"
	PaymentUploadHint        = "Please upload a screenshot of your payment confirmation"
	PaymentUploadAccept      = "image/png, image/jpeg, image/jpg"
	ImageAccept              = "image/*"
	QRHint                   = "Scan this QR code with your payment app to complete the transaction"
)

// DefaultPaymentOptions is offered by a payment selector without options.
var DefaultPaymentOptions = []string{"Credit Card", "PayPal", "Bank Transfer"}

// Widget is the closed set of renderable controls. Implementations live in
// this package only.
type Widget interface {
	Base() Common
	widget()
}

// Common carries what every widget has.
type Common struct {
	ID       string
	Type     model.ElementType
	Label    string
	Required bool
	Error    string
	Theme    model.Theme
	// Focus marks the first invalid field of a rejected submit.
	Focus bool
}

func (c Common) Base() Common { return c }

// Heading is a decorative section title.
type Heading struct{ Common }

// Divider is a decorative horizontal rule.
type Divider struct{ Common }

// TextInput is a single line input. InputType is the HTML input type.
type TextInput struct {
	Common
	InputType   string
	Placeholder string
	Value       string
}

// NumberInput collects a number. Currency marks amount fields.
type NumberInput struct {
	Common
	Placeholder string
	Value       string
	Currency    bool
}

// TextArea is a multi line input.
type TextArea struct {
	Common
	Placeholder string
	Value       string
}

// Choice is a single selection out of Options.
type Choice struct {
	Common
	Placeholder string
	Options     []string
	Value       string
}

// Toggle is a boolean checkbox. Text is optional rich text shown above it.
type Toggle struct {
	Common
	Caption string
	Text    string
	Checked bool
}

// Upload is an image picker whose value is the uploaded file URL.
type Upload struct {
	Common
	OwnerID     string
	Accept      string
	Hint        string
	Value       string
	UploadError string
	Payment     bool
	MaxBytes    int64
	MaxSize     string
}

// QRCode shows the owner's payment QR image.
type QRCode struct {
	Common
	OwnerID string
	URL     string
	QRError string
	Hint    string
}

func (Heading) widget()     {}
func (Divider) widget()     {}
func (TextInput) widget()   {}
func (NumberInput) widget() {}
func (TextArea) widget()    {}
func (Choice) widget()      {}
func (Toggle) widget()      {}
func (Upload) widget()      {}
func (QRCode) widget()      {}

// FieldState is the value and error of one element.
type FieldState struct {
	Value model.Value
	Error string
}

// Snapshot is a read-only view of collected values and errors.
type Snapshot struct {
	Values model.Values
	Errors model.Errors
}

// Field returns the state of id.
func (s Snapshot) Field(id string) FieldState {
	return FieldState{Value: s.Values.Get(id), Error: s.Errors[id]}
}

// Env is the ambient data widgets need beyond their own element.
type Env struct {
	Theme        model.Theme
	OwnerID      string
	PaymentQR    string
	PaymentQRErr string
	UploadErrors map[string]string
	FirstInvalid string
	// MaxUploadBytes is the upload size limit; zero means the default.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

func (e Env) maxUpload() int64 {
	if e.MaxUploadBytes > 0 {
		return e.MaxUploadBytes
	}
	return model.DefaultMaxUploadBytes
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Dispatch maps el onto its widget. Unknown element types are logged and
// reported with ok == false.
func Dispatch(el model.FormElement, fs FieldState, env Env) (Widget, bool) {
	common := Common{
		ID:       el.ID,
		Type:     el.Type,
		Label:    el.Label,
		Required: el.Required,
		Error:    fs.Error,
		Theme:    env.Theme,
		Focus:    env.FirstInvalid != "" && env.FirstInvalid == el.ID,
	}
	placeholder := el.Placeholder
	if strings.TrimSpace(placeholder) == "" {
		placeholder = "Enter " + strings.ToLower(el.Label)
	}

	switch el.Type {
	case model.ElementHeading:
		if common.Label == "" {
			common.Label = DefaultHeadingLabel
		}
		return Heading{Common: decorative(common)}, true
	case model.ElementDivider:
		return Divider{Common: decorative(common)}, true
	case model.ElementText, model.ElementEmail, model.ElementPhone, model.ElementDate, model.ElementTime:
		return TextInput{
			Common:      common,
			InputType:   inputType(el.Type),
			Placeholder: placeholder,
			Value:       fs.Value.String(),
		}, true
	case model.ElementNumber:
		return NumberInput{Common: common, Placeholder: placeholder, Value: fs.Value.String()}, true
	case model.ElementAmount:
		if strings.TrimSpace(el.Placeholder) == "" {
			placeholder = DefaultAmountPlaceholder
		}
		return NumberInput{Common: common, Placeholder: placeholder, Value: fs.Value.String(), Currency: true}, true
	case model.ElementTextarea:
		return TextArea{Common: common, Placeholder: placeholder, Value: fs.Value.String()}, true
	case model.ElementSelect:
		prompt := el.Placeholder
		if strings.TrimSpace(prompt) == "" {
			prompt = DefaultSelectPlaceholder
		}
		return Choice{Common: common, Placeholder: prompt, Options: el.Options, Value: fs.Value.String()}, true
	case model.ElementPayment:
		prompt := el.Placeholder
		if strings.TrimSpace(prompt) == "" {
			prompt = DefaultPaymentPrompt
		}
		options := el.Options
		if len(options) == 0 {
			options = DefaultPaymentOptions
		}
		return Choice{Common: common, Placeholder: prompt, Options: options, Value: fs.Value.String()}, true
	case model.ElementAgreement, model.ElementTerms:
		if common.Label == "" {
			common.Label = DefaultAgreementLabel
		}
		text := el.AgreementText
		if strings.TrimSpace(text) == "" {
			text = el.Placeholder
		}
		return Toggle{Common: common, Caption: DefaultToggleCaption, Text: text, Checked: fs.Value.Truthy()}, true
	case model.ElementCheckbox:
		if common.Label == "" {
			common.Label = DefaultCheckboxLabel
		}
		caption := el.CheckboxLabel
		if strings.TrimSpace(caption) == "" {
			caption = DefaultToggleCaption
		}
		return Toggle{Common: common, Caption: caption, Checked: fs.Value.Truthy()}, true
	case model.ElementImage:
		return Upload{
			Common:      common,
			OwnerID:     env.OwnerID,
			Accept:      ImageAccept,
			Value:       fs.Value.String(),
			UploadError: env.UploadErrors[el.ID],
			MaxBytes:    env.maxUpload(),
			MaxSize:     model.SizeLabel(env.maxUpload()),
		}, true
	case model.ElementPaymentUpload:
		return Upload{
			Common:      common,
			OwnerID:     env.OwnerID,
			Accept:      PaymentUploadAccept,
			Hint:        PaymentUploadHint,
			Value:       fs.Value.String(),
			UploadError: env.UploadErrors[el.ID],
			Payment:     true,
			MaxBytes:    env.maxUpload(),
			MaxSize:     model.SizeLabel(env.maxUpload()),
		}, true
	case model.ElementQRCode:
		if common.Label == "" {
			common.Label = model.PaymentQRLabel
		}
		return QRCode{
			Common:  decorative(common),
			OwnerID: env.OwnerID,
			URL:     env.PaymentQR,
			QRError: env.PaymentQRErr,
			Hint:    QRHint,
		}, true
	default:
		env.logger().Warn("unknown form element type", "id", el.ID, "type", string(el.Type))
		return nil, false
	}
}

// Widgets dispatches the elements visible in mode and, for event bookings,
// appends the payment QR and the required screenshot upload.
func Widgets(form model.FormConfig, snap Snapshot, env Env, mode model.Mode) []Widget {
	if env.OwnerID == "" {
		env.OwnerID = form.OwnerID
	}
	env.Theme = form.Theme

	visible := model.VisibleElements(form.Elements, mode)
	out := make([]Widget, 0, len(visible)+2)
	for _, el := range visible {
		if w, ok := Dispatch(el, snap.Field(el.ID), env); ok {
			out = append(out, w)
		}
	}
	if mode.General() {
		return out
	}
	for _, el := range PaymentBlock() {
		if w, ok := Dispatch(el, snap.Field(el.ID), env); ok {
			out = append(out, w)
		}
	}
	return out
}

// PaymentBlock returns the static elements appended to event booking forms.
func PaymentBlock() []model.FormElement {
	return []model.FormElement{
		{ID: model.PaymentQRID, Type: model.ElementQRCode, Label: model.PaymentQRLabel},
		{ID: model.PaymentScreenshotID, Type: model.ElementPaymentUpload, Label: model.PaymentUploadLabel, Required: true},
	}
}

// ParseValue converts submitted text for el into a typed Value. Toggles are
// true for any checked marker, numeric fields become numbers when they parse
// and stay strings otherwise so validation can report them.
func ParseValue(t model.ElementType, raw string) model.Value {
	switch {
	case t.Toggle():
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "on", "true", "1", "yes":
			return model.Bool(true)
		default:
			return model.Bool(false)
		}
	case t.Numeric():
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return model.String("")
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return model.Number(n)
		}
		return model.String(raw)
	default:
		return model.String(raw)
	}
}

func decorative(c Common) Common {
	return Common{ID: c.ID, Type: c.Type, Label: c.Label, Theme: c.Theme}
}

func inputType(t model.ElementType) string {
	switch t {
	case model.ElementEmail:
		return "email"
	case model.ElementPhone:
		return "tel"
	case model.ElementDate:
		return "date"
	case model.ElementTime:
		return "time"
	default:
		return "text"
	}
}

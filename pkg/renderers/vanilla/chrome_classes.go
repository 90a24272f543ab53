package vanilla

import "github.com/fotosfolio/go-bookingform/pkg/model"

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage    ChromeClass = "bf-page"
	ClassCard    ChromeClass = "bf-card"
	ClassForm    ChromeClass = "bf-form"
	ClassHeader  ChromeClass = "bf-header"
	ClassField   ChromeClass = "bf-field"
	ClassInvalid ChromeClass = "bf-field--invalid"
	ClassError   ChromeClass = "bf-error"
	ClassActions ChromeClass = "bf-actions"
	ClassNotice  ChromeClass = "bf-notice"
	ClassFooter  ChromeClass = "bf-footer"
)

// WidthClass maps a form width onto the card's max-width utility.
func WidthClass(w model.FormWidth) string {
	switch w {
	case model.WidthNarrow:
		return "max-w-xl"
	case model.WidthWide:
		return "max-w-5xl"
	default:
		return "max-w-3xl"
	}
}

// ButtonClass maps a button style onto the submit button's corner utility.
func ButtonClass(s model.ButtonStyle) string {
	switch s {
	case model.ButtonPill:
		return "rounded-full"
	case model.ButtonSquare:
		return "rounded-none"
	default:
		return "rounded-lg"
	}
}

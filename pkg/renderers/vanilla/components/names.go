package components

import "github.com/fotosfolio/go-bookingform/pkg/render"

// Component names used by the vanilla renderer and the default registry.
const (
	NameHeading  = "heading"
	NameDivider  = "divider"
	NameInput    = "input"
	NameNumber   = "number"
	NameTextarea = "textarea"
	NameSelect   = "select"
	NameToggle   = "toggle"
	NameUpload   = "upload"
	NameQRCode   = "qrcode"
)

// NameFor returns the component that draws w.
func NameFor(w render.Widget) string {
	switch w.(type) {
	case render.Heading:
		return NameHeading
	case render.Divider:
		return NameDivider
	case render.TextInput:
		return NameInput
	case render.NumberInput:
		return NameNumber
	case render.TextArea:
		return NameTextarea
	case render.Choice:
		return NameSelect
	case render.Toggle:
		return NameToggle
	case render.Upload:
		return NameUpload
	case render.QRCode:
		return NameQRCode
	default:
		return ""
	}
}

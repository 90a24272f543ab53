package render

import (
	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// PageKind selects which screen a renderer produces.
type PageKind string

const (
	PageForm    PageKind = "form"
	PageError   PageKind = "error"
	PageSuccess PageKind = "success"
)

// Default copy shared by every renderer.
const (
	SubmitLabel      = "Submit Booking"
	SubmittingLabel  = "Submitting..."
	NotFoundTitle    = "Form Not Found"
	LoadErrorTitle   = "Error Loading Form"
	LoadErrorMessage = "Unable to load the form. Please try again later."
	HomeLabel        = "Go to FotosFolio"
	FooterText       = "Secured by FotosFolio • Your information is safe and secure"

	SuccessTitle   = "Booking Submitted!"
	SuccessLead    = "Your booking request has been received successfully."
	SuccessFollow  = "The photographer will review your submission and get back to you shortly."
	SuccessHomeCTA = "Visit FotosFolio"
)

// Page is everything a renderer needs to draw one screen.
type Page struct {
	Kind PageKind
	Form model.FormConfig
	Mode model.Mode

	// Form screen.
	Action       string
	Widgets      []Widget
	Hidden       []HiddenField
	Submitting   bool
	Notice       string
	FirstInvalid string

	// Error screen.
	Failure Failure

	// Success screen.
	Receipt Receipt

	HomeURL string
}

// Failure is the full page load error.
type Failure struct {
	Title   string
	Message string
}

// Receipt is what the success screen shows.
type Receipt struct {
	BookingID string
	EventName string
}

// FormPage builds the form screen for widgets.
func FormPage(form model.FormConfig, mode model.Mode, action string, widgets []Widget) Page {
	return Page{
		Kind:    PageForm,
		Form:    form,
		Mode:    mode,
		Action:  action,
		Widgets: widgets,
		Hidden:  SortedHiddenFields(ModeHidden(mode)...),
	}
}

// ErrorPage builds the load failure screen for message. A not found message
// gets its own title; an empty message falls back to LoadErrorMessage.
func ErrorPage(message, homeURL string) Page {
	title := LoadErrorTitle
	if message == apierrors.ErrFormNotFound.Err {
		title = NotFoundTitle
	}
	if message == "" {
		message = LoadErrorMessage
	}
	return Page{
		Kind:    PageError,
		Failure: Failure{Title: title, Message: message},
		HomeURL: homeURL,
	}
}

// SuccessPage builds the confirmation screen.
func SuccessPage(bookingID, eventName, homeURL string) Page {
	return Page{
		Kind:    PageSuccess,
		Receipt: Receipt{BookingID: bookingID, EventName: eventName},
		HomeURL: homeURL,
	}
}

// Package apierrors holds the user facing error catalogue of the booking form.
// Each error carries a stable code, the upstream HTTP status it maps from and
// the message shown to the person filling the form.
package apierrors

import (
	"errors"
	"net/http"
)

// DefinedError is a catalogued, user presentable error.
type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
}

func (e DefinedError) Error() string {
	return e.Err
}

// Is matches catalogue entries by code so wrapped copies still compare equal.
func (e DefinedError) Is(target error) bool {
	var other DefinedError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithMessage returns a copy of e that shows msg instead of the catalogue
// text. The code is kept so errors.Is still matches. A blank msg returns e.
func (e DefinedError) WithMessage(msg string) DefinedError {
	if msg == "" {
		return e
	}
	e.Err = msg
	return e
}

var (
	// 1*** - booking API responses
	ErrFormNotFound    = DefinedError{Code: 1001, StatusCode: http.StatusNotFound, Err: "Form not found"}
	ErrFormUnavailable = DefinedError{Code: 1002, StatusCode: http.StatusForbidden, Err: "Form is no longer available"}
	ErrInvalidData     = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "Invalid data provided"}
	ErrTooManyRequests = DefinedError{Code: 1004, StatusCode: http.StatusTooManyRequests, Err: "Too many requests. Please try again later"}
	ErrServer          = DefinedError{Code: 1005, StatusCode: http.StatusInternalServerError, Err: "Server error. Please try again"}
	ErrUnknown         = DefinedError{Code: 1006, StatusCode: http.StatusBadGateway, Err: "An error occurred"}
	ErrNetwork         = DefinedError{Code: 1007, StatusCode: http.StatusBadGateway, Err: "Network error. Please check your connection"}
	ErrUnexpected      = DefinedError{Code: 1008, StatusCode: http.StatusInternalServerError, Err: "An unexpected error occurred"}
	ErrInvalidResponse = DefinedError{Code: 1009, StatusCode: http.StatusBadGateway, Err: "Received an invalid response. Please try again"}
	ErrFormMalformed   = DefinedError{Code: 1010, StatusCode: http.StatusBadGateway, Err: "Failed to fetch form configuration"}

	// 2*** - form lifecycle
	ErrFormInactive = DefinedError{Code: 2001, StatusCode: http.StatusGone, Err: "This form is no longer available"}
	ErrSubmitFailed = DefinedError{Code: 2002, StatusCode: http.StatusBadGateway, Err: "Failed to submit booking"}

	// 3*** - uploads and payment QR
	ErrInvalidImage  = DefinedError{Code: 3001, StatusCode: http.StatusUnsupportedMediaType, Err: "Please select a valid image file"}
	ErrImageTooLarge = DefinedError{Code: 3002, StatusCode: http.StatusRequestEntityTooLarge, Err: "File size must be less than 5MB"}
	ErrNoDownloadURL = DefinedError{Code: 3003, StatusCode: http.StatusBadGateway, Err: "No download URL received"}
	ErrUploadFailed  = DefinedError{Code: 3004, StatusCode: http.StatusBadGateway, Err: "Failed to upload image"}
	ErrQRUnavailable = DefinedError{Code: 3005, StatusCode: http.StatusBadGateway, Err: "Failed to load QR code"}
)

// FromStatus maps a non-success booking API status onto the catalogue.
func FromStatus(status int) DefinedError {
	switch status {
	case http.StatusNotFound:
		return ErrFormNotFound
	case http.StatusForbidden:
		return ErrFormUnavailable
	case http.StatusBadRequest:
		return ErrInvalidData
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	case http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnknown
	}
}

// Message returns the user facing text for err. Errors outside the catalogue
// collapse to ErrUnexpected.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var defined DefinedError
	if errors.As(err, &defined) {
		return defined.Err
	}
	return ErrUnexpected.Err
}

// Status returns the HTTP status to answer with for err.
func Status(err error) int {
	var defined DefinedError
	if errors.As(err, &defined) && defined.StatusCode != 0 {
		return defined.StatusCode
	}
	return http.StatusInternalServerError
}

package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoUploader is returned when a form asks for an image but the
	// renderer was built without an uploader.
	ErrNoUploader = errors.New("tui: no uploader configured for image fields")
)

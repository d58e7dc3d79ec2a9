package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when submit-time validation still finds errors
	// after the prompt walk.
	ErrInvalid = errors.New("tui: form is invalid")
)

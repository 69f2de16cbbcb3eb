package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// to submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSelection is returned when a select prompt resolves to no option.
	ErrNoSelection = errors.New("tui: no option selected")
)

package workshop

import "errors"

// Every error here is recoverable: the caller reports it and nothing changes.
var (
	// ErrEmptyInput is returned when a question body is blank.
	ErrEmptyInput = errors.New("input is empty")

	// ErrPermissionDenied is returned for teacher-only operations while teacher mode is off.
	ErrPermissionDenied = errors.New("teacher mode is required")

	// ErrResetNotConfirmed is returned when a reset arrives without its confirmation.
	ErrResetNotConfirmed = errors.New("reset must be confirmed")

	// ErrUnknownItem is returned for an exercise, question or parameter that does not exist.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownView is returned for a section name outside the fixed set.
	ErrUnknownView = errors.New("unknown view")
)

package models

import "errors"

var (
	// ErrMissingField indicates a required field was left empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField indicates a field value failed validation.
	ErrInvalidField = errors.New("invalid field")

	// ErrNotFound indicates the requested booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrNotOwner indicates the caller does not own the booking.
	ErrNotOwner = errors.New("booking owned by another user")

	// ErrTerminalState indicates the booking is confirmed or cancelled and
	// the requested transition is not allowed.
	ErrTerminalState = errors.New("booking already finalized")
)

package service

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP statuses
// with errors.Is; call sites wrap them with fmt.Errorf("%w: ...") for
// specific messages.
var (
	// ErrNotFound - entity or cross-reference missing.
	ErrNotFound = errors.New("not found")

	// ErrForbidden - principal lacks ownership or role for the action.
	ErrForbidden = errors.New("access denied")

	// ErrConflict - duplicate active assignment or duplicate unique field.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput - malformed or out-of-range request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState - state-machine precondition violated.
	ErrInvalidState = errors.New("invalid state")
)

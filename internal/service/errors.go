package service

import "errors"

// Sentinel errors surfaced to the API layer. Handlers map each of these to
// a distinct HTTP status; anything else is treated as an internal error.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrPickupAlreadyDone  = errors.New("order is not pending pickup")
)

// ValidationError reports malformed or incomplete input. It is always
// raised before any write, so a validation failure never leaves partial
// state behind.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

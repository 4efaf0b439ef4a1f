package orchestrators

import (
	"errors"
	"fmt"
)

// Outcome errors shared by every mutation. Anything else returned by an
// orchestrator is a storage failure.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
)

// ValidationError reports input rejected before any write.
// Message is safe to show to the user.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// invalid wraps a domain error as a ValidationError.
func invalid(err error) error {
	return &ValidationError{Message: err.Error(), Err: err}
}

// invalidf builds a ValidationError from a message.
func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

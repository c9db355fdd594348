package valueobjects

import (
	"errors"
	"fmt"
)

// Reasons a subscriber identity can be rejected. Compare with errors.Is.
var (
	ErrNameEmpty              = errors.New("subscriber name is empty")
	ErrNameTooLong            = errors.New("subscriber name is too long")
	ErrNameForbiddenCharacter = errors.New("subscriber name contains a forbidden character")
	ErrNameInvalidEncoding    = errors.New("subscriber name is not valid UTF-8 text")
	ErrInvalidEmail           = errors.New("subscriber email is invalid")
)

// ValidationError describes why a raw input could not be turned into a value object.
// Input is kept for diagnostics only and must not be echoed back to untrusted callers.
type ValidationError struct {
	Field  string
	Input  string
	Reason error
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Reason, ErrInvalidEmail) {
		return fmt.Sprintf("%q is not a valid subscriber email", e.Input)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func newValidationError(field, input string, reason error) *ValidationError {
	return &ValidationError{Field: field, Input: input, Reason: reason}
}

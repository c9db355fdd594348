package valueobjects

import (
	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches tag parsing.
var validate = validator.New()

// SubscriberEmail is a syntactically valid email address.
// No DNS or mailbox check is performed.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw as an email address. The input is kept
// verbatim on success.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if err := validate.Var(raw, "required,email"); err != nil {
		return SubscriberEmail{}, newValidationError("email", raw, ErrInvalidEmail)
	}
	return SubscriberEmail{value: raw}, nil
}

// String returns the address exactly as it was parsed.
func (e SubscriberEmail) String() string {
	return e.value
}

// IsZero reports whether e was not produced by ParseSubscriberEmail.
func (e SubscriberEmail) IsZero() bool {
	return e.value == ""
}

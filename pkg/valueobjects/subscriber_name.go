package valueobjects

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxSubscriberNameLength is the maximum number of user-perceived characters
// (grapheme clusters) in a subscriber name.
const MaxSubscriberNameLength = 256

// forbiddenNameCharacters are rejected to keep names safe to render in emails and HTML.
const forbiddenNameCharacters = `/()"<>\{}`

// SubscriberName is a trimmed, non-empty subscriber name.
// The zero value is not a valid name; use ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName trims raw and validates it as a subscriber name.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return SubscriberName{}, newValidationError("name", raw, ErrNameEmpty)
	}
	// Postgres text columns store neither invalid UTF-8 nor NUL.
	if !utf8.ValidString(trimmed) || strings.ContainsRune(trimmed, 0) {
		return SubscriberName{}, newValidationError("name", raw, ErrNameInvalidEncoding)
	}
	if uniseg.GraphemeClusterCount(trimmed) > MaxSubscriberNameLength {
		return SubscriberName{}, newValidationError("name", raw, ErrNameTooLong)
	}
	if strings.ContainsAny(trimmed, forbiddenNameCharacters) {
		return SubscriberName{}, newValidationError("name", raw, ErrNameForbiddenCharacter)
	}

	return SubscriberName{value: trimmed}, nil
}

// String returns the validated name.
func (n SubscriberName) String() string {
	return n.value
}

// IsZero reports whether n was not produced by ParseSubscriberName.
func (n SubscriberName) IsZero() bool {
	return n.value == ""
}

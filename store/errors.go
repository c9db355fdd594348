package store

import "errors"

// Error Handling Guidelines:
// - Services/Stores: Use fmt.Errorf("context: %w", err) for wrapping errors
// - Handlers: Use apperrors.* functions for HTTP-appropriate errors

var (
	// ErrConflict indicates a unique constraint was violated, e.g. an email
	// that is already subscribed.
	ErrConflict = errors.New("conflict")
)

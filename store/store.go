// Package store declares the persistence contracts used by the services.
package store

import (
	"context"

	"github.com/NomadCrew/nomad-crew-newsletter/types"
)

// SubscriptionStore persists new subscribers.
type SubscriptionStore interface {
	// Insert stores a single subscriber row. A duplicate email returns an
	// error wrapping ErrConflict.
	Insert(ctx context.Context, subscriber *types.Subscriber) error
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/store"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ store.SubscriptionStore = (*pgSubscriptionStore)(nil)

type pgSubscriptionStore struct {
	db DBTX
}

// NewPgSubscriptionStore creates a PostgreSQL-backed subscription store.
func NewPgSubscriptionStore(db DBTX) store.SubscriptionStore {
	return &pgSubscriptionStore{db: db}
}

const insertSubscriptionQuery = `
	INSERT INTO subscriptions (id, email, name, subscribed_at, status)
	VALUES ($1, $2, $3, $4, $5)`

// Insert implements store.SubscriptionStore.
func (s *pgSubscriptionStore) Insert(ctx context.Context, sub *types.Subscriber) error {
	_, err := s.db.Exec(ctx, insertSubscriptionQuery,
		sub.ID,
		sub.Email,
		sub.Name,
		sub.SubscribedAt,
		string(sub.Status),
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("subscription for %s already exists: %w", logger.MaskEmail(sub.Email), store.ErrConflict)
	}
	return fmt.Errorf("failed to insert subscription: %w", err)
}

// Package postgres implements durable storage for the onboarding flow:
// the question catalog, applicant profiles, the raw response log, the
// structured staff applications and the bot settings row.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/session"
)

// Store is the explicitly constructed storage client. Its lifecycle is
// owned by the process entry point; nothing in this package holds global
// connection state.
type Store struct {
	db     *sql.DB
	cache  *session.Cache // optional, derived data only
	logger logger.Logger
}

func New(db *sql.DB, cache *session.Cache, log logger.Logger) *Store {
	return &Store{
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// invalidateCache drops the cached flow state after a successful write.
// Best effort: the cache is derived data with a short TTL, so a failed
// invalidation degrades freshness, not correctness of the stored state.
func (s *Store) invalidateCache(ctx context.Context, telegramID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, telegramID); err != nil {
		s.logger.Warn("session cache invalidation failed", map[string]interface{}{
			"telegramId": telegramID,
			"error":      err,
		})
	}
}

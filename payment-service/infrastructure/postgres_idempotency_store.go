package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresIdempotencyStore implements the IdempotencyGuard on a keyed table
// with a per-key expiry. Expired keys read as never applied; a periodic
// cleanup removes them so the table stays bounded.
type PostgresIdempotencyStore struct {
	db *sqlx.DB
}

// NewPostgresIdempotencyStore creates a new PostgresIdempotencyStore
func NewPostgresIdempotencyStore(db *sqlx.DB) *PostgresIdempotencyStore {
	return &PostgresIdempotencyStore{db: db}
}

// IsApplied reports whether the operation key was marked inside its TTL
func (s *PostgresIdempotencyStore) IsApplied(ctx context.Context, operationKey string) (bool, error) {
	query := `SELECT expires_at FROM idempotency_keys WHERE operation_key = $1`

	var expiresAt time.Time
	err := s.db.GetContext(ctx, &expiresAt, query, operationKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to check idempotency key")
	}

	return expiresAt.After(time.Now()), nil
}

// MarkApplied records the operation key with the given TTL. Re-marking an
// existing key extends its expiry.
func (s *PostgresIdempotencyStore) MarkApplied(ctx context.Context, operationKey string, ttl time.Duration) error {
	query := `
		INSERT INTO idempotency_keys (operation_key, applied_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (operation_key) DO UPDATE
		SET applied_at = EXCLUDED.applied_at, expires_at = EXCLUDED.expires_at`

	now := time.Now()
	if _, err := s.db.ExecContext(ctx, query, operationKey, now, now.Add(ttl)); err != nil {
		return errors.Wrap(err, "failed to mark idempotency key")
	}

	return nil
}

// DeleteExpired removes keys past their expiry and returns how many were
// deleted
func (s *PostgresIdempotencyStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired idempotency keys")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count deleted idempotency keys")
	}

	return rows, nil
}

package infrastructure

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
)

// PostgresInventoryStore implements InventoryStore using PostgreSQL
type PostgresInventoryStore struct {
	db *sqlx.DB
}

// NewPostgresInventoryStore creates a new PostgresInventoryStore
func NewPostgresInventoryStore(db *sqlx.DB) *PostgresInventoryStore {
	return &PostgresInventoryStore{db: db}
}

// Apply writes the product rows and the reservation record in a single
// transaction. A redelivered event after a failed commit finds the table
// unchanged: either stock moved and the reservation row exists to dedup
// the retry, or nothing moved at all.
func (s *PostgresInventoryStore) Apply(ctx context.Context, reservation *domain.Reservation, products []*domain.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, product := range products {
		if err := saveProduct(ctx, tx, product); err != nil {
			return err
		}
	}

	if err := saveReservation(ctx, tx, reservation); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit inventory changes")
	}

	return nil
}

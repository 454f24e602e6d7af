package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// PostgresReservationRepository implements ReservationRepository using PostgreSQL
type PostgresReservationRepository struct {
	db *sqlx.DB
}

// NewPostgresReservationRepository creates a new PostgresReservationRepository
func NewPostgresReservationRepository(db *sqlx.DB) *PostgresReservationRepository {
	return &PostgresReservationRepository{db: db}
}

// postgresReservation represents reservation in database
type postgresReservation struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	Status    string    `db:"status"`
	Lines     []byte    `db:"lines"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Save upserts a reservation keyed on order id. The unique order_id key is
// what makes a redelivered reservation a no-op instead of a second row.
func (r *PostgresReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	return saveReservation(ctx, r.db, reservation)
}

// saveReservation runs against either the bare connection or an open
// transaction (see PostgresInventoryStore).
func saveReservation(ctx context.Context, ext sqlx.ExtContext, reservation *domain.Reservation) error {
	lines, err := json.Marshal(reservation.Lines)
	if err != nil {
		return errors.Wrap(err, "failed to marshal reservation lines")
	}

	query := `
		INSERT INTO reservations (id, order_id, status, lines, created_at, updated_at)
		VALUES (:id, :order_id, :status, :lines, :created_at, :updated_at)
		ON CONFLICT (order_id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`

	_, err = sqlx.NamedExecContext(ctx, ext, query, &postgresReservation{
		ID:        reservation.ID.String(),
		OrderID:   reservation.OrderID.String(),
		Status:    string(reservation.Status),
		Lines:     lines,
		CreatedAt: reservation.Timestamps.CreatedAt,
		UpdatedAt: reservation.Timestamps.UpdatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to save reservation")
	}

	return nil
}

// FindByOrderID finds a reservation by order ID
func (r *PostgresReservationRepository) FindByOrderID(ctx context.Context, orderID models.ID) (*domain.Reservation, error) {
	query := `
		SELECT id, order_id, status, lines, created_at, updated_at
		FROM reservations
		WHERE order_id = $1`

	var pgReservation postgresReservation
	err := r.db.GetContext(ctx, &pgReservation, query, orderID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Reservation not found
		}
		return nil, errors.Wrap(err, "failed to find reservation")
	}

	var lines []domain.ReservationLine
	if err := json.Unmarshal(pgReservation.Lines, &lines); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal reservation lines")
	}

	return &domain.Reservation{
		ID:      models.ID(pgReservation.ID),
		OrderID: models.ID(pgReservation.OrderID),
		Status:  domain.ReservationStatus(pgReservation.Status),
		Lines:   lines,
		Timestamps: models.Timestamps{
			CreatedAt: pgReservation.CreatedAt,
			UpdatedAt: pgReservation.UpdatedAt,
		},
	}, nil
}

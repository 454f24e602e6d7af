package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shipping-service/domain"
)

// PostgresShipmentRepository implements ShipmentRepository using PostgreSQL
type PostgresShipmentRepository struct {
	db *sqlx.DB
}

// NewPostgresShipmentRepository creates a new PostgresShipmentRepository
func NewPostgresShipmentRepository(db *sqlx.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db}
}

// postgresShipment represents shipment in database
type postgresShipment struct {
	ID                string     `db:"id"`
	OrderID           string     `db:"order_id"`
	CorrelationID     string     `db:"correlation_id"`
	TrackingNumber    string     `db:"tracking_number"`
	Carrier           string     `db:"carrier"`
	Status            string     `db:"status"`
	EstimatedDelivery *time.Time `db:"estimated_delivery"`
	ActualDelivery    *time.Time `db:"actual_delivery"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	Version           int        `db:"version"`
}

// Save persists a shipment. The first write is an upsert keyed on order_id,
// which is what keeps a redelivered payment event from creating a second
// shipment; later writes use the version column as an optimistic lock.
func (r *PostgresShipmentRepository) Save(ctx context.Context, shipment *domain.Shipment) error {
	pgShipment := toPostgresShipment(shipment)

	if shipment.Version.Value == 1 {
		query := `
			INSERT INTO shipments (id, order_id, correlation_id, tracking_number, carrier, status,
				estimated_delivery, actual_delivery, created_at, updated_at, version)
			VALUES (:id, :order_id, :correlation_id, :tracking_number, :carrier, :status,
				:estimated_delivery, :actual_delivery, :created_at, :updated_at, :version)
			ON CONFLICT (order_id) DO NOTHING`

		if _, err := r.db.NamedExecContext(ctx, query, pgShipment); err != nil {
			return errors.Wrap(err, "failed to save shipment")
		}

		return nil
	}

	query := `
		UPDATE shipments
		SET status = :status, actual_delivery = :actual_delivery,
			updated_at = :updated_at, version = :version
		WHERE id = :id AND version = :old_version`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":              pgShipment.ID,
		"status":          pgShipment.Status,
		"actual_delivery": pgShipment.ActualDelivery,
		"updated_at":      pgShipment.UpdatedAt,
		"version":         pgShipment.Version,
		"old_version":     pgShipment.Version - 1,
	})
	if err != nil {
		return errors.Wrap(err, "failed to update shipment")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check update result")
	}

	if rows == 0 {
		return errors.New("shipment was modified concurrently")
	}

	return nil
}

// FindByID finds a shipment by ID
func (r *PostgresShipmentRepository) FindByID(ctx context.Context, id models.ID) (*domain.Shipment, error) {
	return r.findOne(ctx, `SELECT * FROM shipments WHERE id = $1`, id.String())
}

// FindByOrderID finds a shipment by order ID
func (r *PostgresShipmentRepository) FindByOrderID(ctx context.Context, orderID models.ID) (*domain.Shipment, error) {
	return r.findOne(ctx, `SELECT * FROM shipments WHERE order_id = $1`, orderID.String())
}

// FindActive returns shipments that have not reached a terminal status
func (r *PostgresShipmentRepository) FindActive(ctx context.Context) ([]*domain.Shipment, error) {
	query := `
		SELECT * FROM shipments
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at`

	var pgShipments []postgresShipment
	err := r.db.SelectContext(ctx, &pgShipments, query,
		string(domain.ShipmentStatusDelivered), string(domain.ShipmentStatusCancelled))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active shipments")
	}

	shipments := make([]*domain.Shipment, 0, len(pgShipments))
	for i := range pgShipments {
		shipments = append(shipments, fromPostgresShipment(&pgShipments[i]))
	}

	return shipments, nil
}

func (r *PostgresShipmentRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Shipment, error) {
	var pgShipment postgresShipment
	err := r.db.GetContext(ctx, &pgShipment, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Shipment not found
		}
		return nil, errors.Wrap(err, "failed to find shipment")
	}

	return fromPostgresShipment(&pgShipment), nil
}

func toPostgresShipment(shipment *domain.Shipment) *postgresShipment {
	return &postgresShipment{
		ID:                shipment.ID.String(),
		OrderID:           shipment.OrderID.String(),
		CorrelationID:     shipment.CorrelationID.String(),
		TrackingNumber:    shipment.TrackingNumber,
		Carrier:           shipment.Carrier,
		Status:            string(shipment.Status),
		EstimatedDelivery: shipment.EstimatedDelivery,
		ActualDelivery:    shipment.ActualDelivery,
		CreatedAt:         shipment.Timestamps.CreatedAt,
		UpdatedAt:         shipment.Timestamps.UpdatedAt,
		Version:           shipment.Version.Value,
	}
}

func fromPostgresShipment(pgShipment *postgresShipment) *domain.Shipment {
	return &domain.Shipment{
		ID:                models.ID(pgShipment.ID),
		OrderID:           models.ID(pgShipment.OrderID),
		CorrelationID:     models.ID(pgShipment.CorrelationID),
		TrackingNumber:    pgShipment.TrackingNumber,
		Carrier:           pgShipment.Carrier,
		Status:            domain.ShipmentStatus(pgShipment.Status),
		EstimatedDelivery: pgShipment.EstimatedDelivery,
		ActualDelivery:    pgShipment.ActualDelivery,
		Timestamps: models.Timestamps{
			CreatedAt: pgShipment.CreatedAt,
			UpdatedAt: pgShipment.UpdatedAt,
		},
		Version: models.Version{Value: pgShipment.Version},
	}
}

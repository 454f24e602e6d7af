package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// postgresOrder represents order in database
type postgresOrder struct {
	ID            string    `db:"id"`
	CorrelationID string    `db:"correlation_id"`
	CustomerID    string    `db:"customer_id"`
	Items         []byte    `db:"items"`
	TotalAmount   int64     `db:"total_amount"`
	TotalCurrency string    `db:"total_currency"`
	Status        string    `db:"status"`
	FailureReason string    `db:"failure_reason"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Version       int       `db:"version"`
}

type postgresOrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Currency  string `json:"currency"`
}

// Save persists an order, using the version column as an optimistic lock on
// updates. Two workers folding events for the same order can never both
// win; the loser redelivers.
func (r *PostgresOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	pgOrder, err := toPostgresOrder(order)
	if err != nil {
		return err
	}

	if order.Version.Value == 1 {
		query := `
			INSERT INTO orders (id, correlation_id, customer_id, items, total_amount, total_currency,
				status, failure_reason, created_at, updated_at, version)
			VALUES (:id, :correlation_id, :customer_id, :items, :total_amount, :total_currency,
				:status, :failure_reason, :created_at, :updated_at, :version)`

		if _, err := r.db.NamedExecContext(ctx, query, pgOrder); err != nil {
			return errors.Wrap(err, "failed to save order")
		}

		return nil
	}

	query := `
		UPDATE orders
		SET status = :status, failure_reason = :failure_reason, updated_at = :updated_at, version = :version
		WHERE id = :id AND version = :old_version`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":             pgOrder.ID,
		"status":         pgOrder.Status,
		"failure_reason": pgOrder.FailureReason,
		"updated_at":     pgOrder.UpdatedAt,
		"version":        pgOrder.Version,
		"old_version":    pgOrder.Version - 1,
	})
	if err != nil {
		return errors.Wrap(err, "failed to update order")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check update result")
	}

	if rows == 0 {
		return errors.New("order was modified concurrently")
	}

	return nil
}

// FindByID finds an order by ID
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id models.ID) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT * FROM orders WHERE id = $1`, id.String())
}

// FindByCorrelationID finds an order by its saga correlation id
func (r *PostgresOrderRepository) FindByCorrelationID(ctx context.Context, correlationID models.ID) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT * FROM orders WHERE correlation_id = $1`, correlationID.String())
}

func (r *PostgresOrderRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Order, error) {
	var pgOrder postgresOrder
	err := r.db.GetContext(ctx, &pgOrder, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Order not found
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	return fromPostgresOrder(&pgOrder)
}

func toPostgresOrder(order *domain.Order) (*postgresOrder, error) {
	pgItems := make([]postgresOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		pgItems = append(pgItems, postgresOrderItem{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount,
			Currency:  item.UnitPrice.Currency,
		})
	}

	items, err := json.Marshal(pgItems)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal order items")
	}

	return &postgresOrder{
		ID:            order.ID.String(),
		CorrelationID: order.CorrelationID.String(),
		CustomerID:    order.CustomerID.String(),
		Items:         items,
		TotalAmount:   order.Total.Amount,
		TotalCurrency: order.Total.Currency,
		Status:        string(order.Status),
		FailureReason: order.FailureReason,
		CreatedAt:     order.Timestamps.CreatedAt,
		UpdatedAt:     order.Timestamps.UpdatedAt,
		Version:       order.Version.Value,
	}, nil
}

func fromPostgresOrder(pgOrder *postgresOrder) (*domain.Order, error) {
	var pgItems []postgresOrderItem
	if err := json.Unmarshal(pgOrder.Items, &pgItems); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal order items")
	}

	items := make([]domain.OrderItem, 0, len(pgItems))
	for _, pgItem := range pgItems {
		items = append(items, domain.OrderItem{
			ProductID: models.ID(pgItem.ProductID),
			Quantity:  pgItem.Quantity,
			UnitPrice: models.NewMoney(pgItem.UnitPrice, pgItem.Currency),
		})
	}

	return &domain.Order{
		ID:            models.ID(pgOrder.ID),
		CorrelationID: models.ID(pgOrder.CorrelationID),
		CustomerID:    models.ID(pgOrder.CustomerID),
		Items:         items,
		Total:         models.NewMoney(pgOrder.TotalAmount, pgOrder.TotalCurrency),
		Status:        domain.OrderStatus(pgOrder.Status),
		FailureReason: pgOrder.FailureReason,
		Timestamps: models.Timestamps{
			CreatedAt: pgOrder.CreatedAt,
			UpdatedAt: pgOrder.UpdatedAt,
		},
		Version: models.Version{Value: pgOrder.Version},
	}, nil
}

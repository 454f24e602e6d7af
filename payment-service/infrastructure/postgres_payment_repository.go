package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/payment-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db *sqlx.DB
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(db *sqlx.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// postgresPayment represents payment in database
type postgresPayment struct {
	ID             string    `db:"id"`
	OrderID        string    `db:"order_id"`
	CustomerID     string    `db:"customer_id"`
	Amount         int64     `db:"amount"`
	Currency       string    `db:"currency"`
	Status         string    `db:"status"`
	RiskScore      int       `db:"risk_score"`
	TransactionID  string    `db:"transaction_id"`
	IdempotencyKey string    `db:"idempotency_key"`
	FailureReason  string    `db:"failure_reason"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	Version        int       `db:"version"`
}

// Save persists a payment. The first write is an upsert keyed on order_id,
// so a concurrent or replayed processing run converges on a single row per
// order; later writes use the version column as an optimistic lock.
func (r *PostgresPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	pgPayment := &postgresPayment{
		ID:             payment.ID.String(),
		OrderID:        payment.OrderID.String(),
		CustomerID:     payment.CustomerID.String(),
		Amount:         payment.Amount.Amount,
		Currency:       payment.Amount.Currency,
		Status:         string(payment.Status),
		RiskScore:      payment.RiskScore,
		TransactionID:  payment.TransactionID,
		IdempotencyKey: payment.IdempotencyKey,
		FailureReason:  payment.FailureReason,
		CreatedAt:      payment.Timestamps.CreatedAt,
		UpdatedAt:      payment.Timestamps.UpdatedAt,
		Version:        payment.Version.Value,
	}

	if payment.Version.Value <= 2 {
		query := `
			INSERT INTO payments (id, order_id, customer_id, amount, currency, status, risk_score,
				transaction_id, idempotency_key, failure_reason, created_at, updated_at, version)
			VALUES (:id, :order_id, :customer_id, :amount, :currency, :status, :risk_score,
				:transaction_id, :idempotency_key, :failure_reason, :created_at, :updated_at, :version)
			ON CONFLICT (order_id) DO UPDATE
			SET status = EXCLUDED.status,
				risk_score = EXCLUDED.risk_score,
				transaction_id = EXCLUDED.transaction_id,
				failure_reason = EXCLUDED.failure_reason,
				updated_at = EXCLUDED.updated_at,
				version = EXCLUDED.version`

		if _, err := r.db.NamedExecContext(ctx, query, pgPayment); err != nil {
			return errors.Wrap(err, "failed to save payment")
		}

		return nil
	}

	query := `
		UPDATE payments
		SET status = :status, risk_score = :risk_score, transaction_id = :transaction_id,
			failure_reason = :failure_reason, updated_at = :updated_at, version = :version
		WHERE id = :id AND version = :old_version`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":             pgPayment.ID,
		"status":         pgPayment.Status,
		"risk_score":     pgPayment.RiskScore,
		"transaction_id": pgPayment.TransactionID,
		"failure_reason": pgPayment.FailureReason,
		"updated_at":     pgPayment.UpdatedAt,
		"version":        pgPayment.Version,
		"old_version":    pgPayment.Version - 1,
	})
	if err != nil {
		return errors.Wrap(err, "failed to update payment")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check update result")
	}

	if rows == 0 {
		return errors.New("payment was modified concurrently")
	}

	return nil
}

// FindByID finds a payment by ID
func (r *PostgresPaymentRepository) FindByID(ctx context.Context, id models.ID) (*domain.Payment, error) {
	return r.findOne(ctx, `SELECT * FROM payments WHERE id = $1`, id.String())
}

// FindByOrderID finds a payment by order ID
func (r *PostgresPaymentRepository) FindByOrderID(ctx context.Context, orderID models.ID) (*domain.Payment, error) {
	return r.findOne(ctx, `SELECT * FROM payments WHERE order_id = $1`, orderID.String())
}

func (r *PostgresPaymentRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Payment, error) {
	var pgPayment postgresPayment
	err := r.db.GetContext(ctx, &pgPayment, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Payment not found
		}
		return nil, errors.Wrap(err, "failed to find payment")
	}

	return &domain.Payment{
		ID:         models.ID(pgPayment.ID),
		OrderID:    models.ID(pgPayment.OrderID),
		CustomerID: models.ID(pgPayment.CustomerID),
		Amount: models.Money{
			Amount:   pgPayment.Amount,
			Currency: pgPayment.Currency,
		},
		Status:         domain.PaymentStatus(pgPayment.Status),
		RiskScore:      pgPayment.RiskScore,
		TransactionID:  pgPayment.TransactionID,
		IdempotencyKey: pgPayment.IdempotencyKey,
		FailureReason:  pgPayment.FailureReason,
		Timestamps: models.Timestamps{
			CreatedAt: pgPayment.CreatedAt,
			UpdatedAt: pgPayment.UpdatedAt,
		},
		Version: models.Version{Value: pgPayment.Version},
	}, nil
}

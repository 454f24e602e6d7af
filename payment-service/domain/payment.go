package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusCompleted     PaymentStatus = "completed"
	PaymentStatusFailed        PaymentStatus = "failed"
	PaymentStatusFraudDetected PaymentStatus = "fraud_detected"
)

// IsTerminal reports whether the payment reached a final outcome
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusFraudDetected
}

// Payment aggregate root. At most one terminal payment exists per order;
// the idempotency guard enforces that before the row is durably committed.
type Payment struct {
	ID             models.ID
	OrderID        models.ID
	CustomerID     models.ID
	Amount         models.Money
	Status         PaymentStatus
	RiskScore      int
	TransactionID  string
	IdempotencyKey string
	FailureReason  string
	Timestamps     models.Timestamps
	Version        models.Version
}

// CreatePayment factory method
func CreatePayment(orderID, customerID models.ID, amount models.Money, idempotencyKey string) (*Payment, error) {
	if orderID == "" {
		return nil, errors.New("order ID is required")
	}

	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}

	return &Payment{
		ID:             models.GenerateUUID(),
		OrderID:        orderID,
		CustomerID:     customerID,
		Amount:         amount,
		Status:         PaymentStatusPending,
		RiskScore:      0,
		IdempotencyKey: idempotencyKey,
		Timestamps:     models.NewTimestamps(),
		Version:        models.NewVersion(),
	}, nil
}

// Complete marks the payment as completed with the gateway transaction id
func (p *Payment) Complete(transactionID string) error {
	if p.Status != PaymentStatusPending {
		return errors.Errorf("payment can only be completed from pending status, got %s", p.Status)
	}

	p.Status = PaymentStatusCompleted
	p.TransactionID = transactionID
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()

	return nil
}

// Fail marks the payment as failed
func (p *Payment) Fail(reason string) error {
	if p.Status == PaymentStatusCompleted {
		return errors.New("cannot fail a completed payment")
	}

	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()

	return nil
}

// BlockForFraud marks the payment as blocked by risk scoring
func (p *Payment) BlockForFraud(riskScore int, reason string) error {
	if p.Status == PaymentStatusCompleted {
		return errors.New("cannot block a completed payment")
	}

	p.Status = PaymentStatusFraudDetected
	p.RiskScore = riskScore
	p.FailureReason = reason
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()

	return nil
}

// PaymentRepository interface
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id models.ID) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID models.ID) (*Payment, error)
}

// IdempotencyGuard answers whether a logical operation has already been
// applied. It is checked before the side effect and marked after the side
// effect commits; the narrow crash window between commit and mark is covered
// by the side effect itself being a keyed upsert. Keys outside the TTL are
// treated as never applied.
type IdempotencyGuard interface {
	IsApplied(ctx context.Context, operationKey string) (bool, error)
	MarkApplied(ctx context.Context, operationKey string, ttl time.Duration) error
}

// PaymentGateway is the external authorization port. Implementations must
// honor the context deadline; a timeout is a declined payment, not a hang.
type PaymentGateway interface {
	Authorize(ctx context.Context, orderID models.ID, amount models.Money) (transactionID string, err error)
}

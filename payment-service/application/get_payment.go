package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/payment-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// GetPaymentQuery represents the query to get a payment
type GetPaymentQuery struct {
	PaymentID string
	OrderID   string
}

// PaymentResponse represents the payment response
type PaymentResponse struct {
	ID            models.ID    `json:"id"`
	OrderID       models.ID    `json:"order_id"`
	CustomerID    models.ID    `json:"customer_id"`
	Amount        models.Money `json:"amount"`
	Status        string       `json:"status"`
	RiskScore     int          `json:"risk_score"`
	RiskLevel     string       `json:"risk_level"`
	TransactionID string       `json:"transaction_id,omitempty"`
	FailureReason string       `json:"failure_reason,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// GetPayment use case
type GetPayment struct {
	paymentRepository domain.PaymentRepository
}

// NewGetPayment creates a new GetPayment use case
func NewGetPayment(paymentRepository domain.PaymentRepository) *GetPayment {
	return &GetPayment{paymentRepository: paymentRepository}
}

// Execute retrieves a payment by its id, or by order id when no payment id
// is given
func (uc *GetPayment) Execute(ctx context.Context, query *GetPaymentQuery) (*PaymentResponse, error) {
	var payment *domain.Payment
	var err error

	switch {
	case query.PaymentID != "":
		payment, err = uc.paymentRepository.FindByID(ctx, models.ID(query.PaymentID))
	case query.OrderID != "":
		payment, err = uc.paymentRepository.FindByOrderID(ctx, models.ID(query.OrderID))
	default:
		return nil, errors.New("payment ID or order ID is required")
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to find payment")
	}

	if payment == nil {
		return nil, errors.New("payment not found")
	}

	return &PaymentResponse{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		CustomerID:    payment.CustomerID,
		Amount:        payment.Amount,
		Status:        string(payment.Status),
		RiskScore:     payment.RiskScore,
		RiskLevel:     domain.RiskLevel(payment.RiskScore),
		TransactionID: payment.TransactionID,
		FailureReason: payment.FailureReason,
		CreatedAt:     payment.Timestamps.CreatedAt,
		UpdatedAt:     payment.Timestamps.UpdatedAt,
	}, nil
}

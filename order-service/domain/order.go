package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusInventoryReserved OrderStatus = "inventory_reserved"
	OrderStatusPaymentProcessed  OrderStatus = "payment_processed"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusCompensating      OrderStatus = "compensating"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusFailed            OrderStatus = "failed"
)

// IsTerminal reports whether the order reached a final state. No event can
// move a terminal order anywhere else.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition marks an event arriving in a state that does not
	// accept it. Handlers log and acknowledge it; retrying cannot succeed.
	ErrInvalidTransition = errors.New("invalid order state transition")
)

// OrderItem is a line of an order. Unit price is captured at creation and
// never re-derived.
type OrderItem struct {
	ProductID models.ID
	Quantity  int
	UnitPrice models.Money
}

// Subtotal returns quantity times unit price
func (i OrderItem) Subtotal() models.Money {
	return i.UnitPrice.Multiply(int64(i.Quantity))
}

// Order aggregate root. Its lifecycle state is mutated only by the saga
// state machine below; every transition checks the current state first, so
// an out-of-sequence or redelivered event can never regress the order.
type Order struct {
	ID            models.ID
	CorrelationID models.ID
	CustomerID    models.ID
	Items         []OrderItem
	Total         models.Money
	Status        OrderStatus
	FailureReason string
	Timestamps    models.Timestamps
	Version       models.Version
}

// CreateOrder factory method. The correlation id minted here follows the
// order through every downstream event.
func CreateOrder(customerID models.ID, items []OrderItem) (*Order, error) {
	if customerID == "" {
		return nil, errors.New("customer ID is required")
	}

	if len(items) == 0 {
		return nil, errors.New("order must have at least one item")
	}

	total := models.Money{}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, errors.New("item product ID is required")
		}

		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}

		if !item.UnitPrice.IsPositive() {
			return nil, errors.New("item unit price must be positive")
		}

		if total.IsZero() {
			total = item.Subtotal()
			continue
		}

		sum, err := total.Add(item.Subtotal())
		if err != nil {
			return nil, errors.Wrap(err, "failed to total order items")
		}
		total = sum
	}

	return &Order{
		ID:            models.GenerateUUID(),
		CorrelationID: models.GenerateUUID(),
		CustomerID:    customerID,
		Items:         items,
		Total:         total,
		Status:        OrderStatusPending,
		Timestamps:    models.NewTimestamps(),
		Version:       models.NewVersion(),
	}, nil
}

// MarkInventoryReserved applies the InventoryReserved transition
func (o *Order) MarkInventoryReserved() error {
	return o.transition(OrderStatusInventoryReserved, OrderStatusPending)
}

// MarkInventoryFailed fails the order without compensation: nothing was
// committed, so there is nothing to unreserve
func (o *Order) MarkInventoryFailed(reason string) error {
	if err := o.transition(OrderStatusFailed, OrderStatusPending, OrderStatusInventoryReserved); err != nil {
		return err
	}
	o.FailureReason = reason
	return nil
}

// MarkPaymentProcessed applies the PaymentProcessed transition
func (o *Order) MarkPaymentProcessed() error {
	return o.transition(OrderStatusPaymentProcessed, OrderStatusInventoryReserved)
}

// BeginCompensation applies the PaymentFailed transition. The order stays
// COMPENSATING until the unreserve request has been durably emitted.
func (o *Order) BeginCompensation(reason string) error {
	if err := o.transition(OrderStatusCompensating, OrderStatusInventoryReserved); err != nil {
		return err
	}
	o.FailureReason = reason
	return nil
}

// MarkFailed closes a compensating order
func (o *Order) MarkFailed() error {
	return o.transition(OrderStatusFailed, OrderStatusCompensating)
}

// MarkShipped applies the ShipmentCreated transition
func (o *Order) MarkShipped() error {
	return o.transition(OrderStatusShipped, OrderStatusPaymentProcessed)
}

// Complete applies the delivered transition
func (o *Order) Complete() error {
	return o.transition(OrderStatusCompleted, OrderStatusShipped)
}

func (o *Order) transition(next OrderStatus, allowedFrom ...OrderStatus) error {
	for _, from := range allowedFrom {
		if o.Status == from {
			o.Status = next
			o.Timestamps = o.Timestamps.Update()
			o.Version = o.Version.Update()
			return nil
		}
	}

	return errors.Wrapf(ErrInvalidTransition, "cannot move order from %s to %s", o.Status, next)
}

// OrderRepository interface
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	FindByCorrelationID(ctx context.Context, correlationID models.ID) (*Order, error)
}

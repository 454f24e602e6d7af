package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// GetOrderQuery represents the query to get an order
type GetOrderQuery struct {
	OrderID       string
	CorrelationID string
}

// OrderItemResponse represents one order line
type OrderItemResponse struct {
	ProductID models.ID    `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// OrderResponse represents the order response
type OrderResponse struct {
	ID            models.ID           `json:"id"`
	CorrelationID models.ID           `json:"correlation_id"`
	CustomerID    models.ID           `json:"customer_id"`
	Items         []OrderItemResponse `json:"items"`
	Total         models.Money        `json:"total"`
	Status        string              `json:"status"`
	FailureReason string              `json:"failure_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// GetOrder use case
type GetOrder struct {
	orderRepository domain.OrderRepository
}

// NewGetOrder creates a new GetOrder use case
func NewGetOrder(orderRepository domain.OrderRepository) *GetOrder {
	return &GetOrder{orderRepository: orderRepository}
}

// Execute retrieves an order by its id, or by correlation id when no order
// id is given
func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (*OrderResponse, error) {
	var order *domain.Order
	var err error

	switch {
	case query.OrderID != "":
		order, err = uc.orderRepository.FindByID(ctx, models.ID(query.OrderID))
	case query.CorrelationID != "":
		order, err = uc.orderRepository.FindByCorrelationID(ctx, models.ID(query.CorrelationID))
	default:
		return nil, errors.New("order ID or correlation ID is required")
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	if order == nil {
		return nil, errors.New("order not found")
	}

	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &OrderResponse{
		ID:            order.ID,
		CorrelationID: order.CorrelationID,
		CustomerID:    order.CustomerID,
		Items:         items,
		Total:         order.Total,
		Status:        string(order.Status),
		FailureReason: order.FailureReason,
		CreatedAt:     order.Timestamps.CreatedAt,
		UpdatedAt:     order.Timestamps.UpdatedAt,
	}, nil
}

// OrderHistoryEntry is one event of an order's saga history
type OrderHistoryEntry struct {
	EventID   models.ID `json:"event_id"`
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// GetOrderHistory returns the recorded saga events of an order in delivery
// order
type GetOrderHistory struct {
	orderRepository domain.OrderRepository
	eventStore      events.EventStore
}

// NewGetOrderHistory creates a new GetOrderHistory use case
func NewGetOrderHistory(orderRepository domain.OrderRepository, eventStore events.EventStore) *GetOrderHistory {
	return &GetOrderHistory{
		orderRepository: orderRepository,
		eventStore:      eventStore,
	}
}

// Execute retrieves the event history for an order
func (uc *GetOrderHistory) Execute(ctx context.Context, orderID string) ([]OrderHistoryEntry, error) {
	order, err := uc.orderRepository.FindByID(ctx, models.ID(orderID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	if order == nil {
		return nil, errors.New("order not found")
	}

	evts, err := uc.eventStore.GetEvents(ctx, order.CorrelationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order history")
	}

	history := make([]OrderHistoryEntry, 0, len(evts))
	for _, event := range evts {
		history = append(history, OrderHistoryEntry{
			EventID:   event.ID,
			EventType: event.EventType,
			Source:    event.Source,
			Timestamp: event.Timestamp,
		})
	}

	return history, nil
}

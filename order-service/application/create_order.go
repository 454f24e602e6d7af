package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateOrderItemInput represents one requested line item
type CreateOrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// CreateOrderCommand represents the command to create an order
type CreateOrderCommand struct {
	CustomerID string                 `json:"customer_id"`
	Currency   string                 `json:"currency"`
	Items      []CreateOrderItemInput `json:"items"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID       models.ID    `json:"order_id"`
	CorrelationID models.ID    `json:"correlation_id"`
	Status        string       `json:"status"`
	Total         models.Money `json:"total"`
}

// CreateOrder use case starts a new fulfillment saga: it persists the order
// in PENDING, records the root event, and publishes order.created with a
// freshly minted correlation id that every downstream event will carry.
type CreateOrder struct {
	orderRepository domain.OrderRepository
	history         *SagaHistory
	eventPublisher  events.Publisher
}

// NewCreateOrder creates a new CreateOrder use case
func NewCreateOrder(
	orderRepository domain.OrderRepository,
	history *SagaHistory,
	eventPublisher events.Publisher,
) *CreateOrder {
	return &CreateOrder{
		orderRepository: orderRepository,
		history:         history,
		eventPublisher:  eventPublisher,
	}
}

// Execute creates the order and publishes order.created
func (uc *CreateOrder) Execute(ctx context.Context, cmd *CreateOrderCommand) (*CreateOrderResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "create_order",
		trace.WithAttributes(attribute.String("customer_id", cmd.CustomerID)),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_operations_total", "Total order operations", 1,
			attribute.String("operation", "create_order"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "create_order"),
			attribute.String("status", status),
		)
	}()

	currency := cmd.Currency
	if currency == "" {
		currency = "USD"
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, input := range cmd.Items {
		items = append(items, domain.OrderItem{
			ProductID: models.ID(input.ProductID),
			Quantity:  input.Quantity,
			UnitPrice: models.NewMoney(input.UnitPrice, currency),
		})
	}

	order, err := domain.CreateOrder(models.ID(cmd.CustomerID), items)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to create order")
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to save order")
	}

	event := events.NewEvent(
		events.OrderCreatedEvent,
		events.OrderServiceSource,
		events.OrderEventsChannel,
		events.OrderCreatedData{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Items:      toItemData(order.Items),
			Total:      order.Total,
		},
	).WithCorrelationID(order.CorrelationID)

	uc.history.Append(ctx, event)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to publish order created event")
	}

	status = "success"
	span.SetAttributes(
		attribute.String("order_id", order.ID.String()),
		attribute.String("correlation_id", order.CorrelationID.String()),
	)

	return &CreateOrderResponse{
		OrderID:       order.ID,
		CorrelationID: order.CorrelationID,
		Status:        string(order.Status),
		Total:         order.Total,
	}, nil
}

func toItemData(items []domain.OrderItem) []events.OrderItemData {
	data := make([]events.OrderItemData, 0, len(items))
	for _, item := range items {
		data = append(data, events.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return data
}

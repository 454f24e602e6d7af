package application

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ShipmentOutcomeCommand represents a shipment event
type ShipmentOutcomeCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
	Created       bool
	Status        string
}

// ProcessShipmentOutcome folds shipment events into the order's lifecycle
// state: creation moves the order to SHIPPED, a delivered update closes the
// saga with COMPLETED. Intermediate carrier updates are acknowledged without
// a transition.
type ProcessShipmentOutcome struct {
	orderRepository domain.OrderRepository
	history         *SagaHistory
	eventPublisher  events.Publisher
}

// NewProcessShipmentOutcome creates a new ProcessShipmentOutcome use case
func NewProcessShipmentOutcome(
	orderRepository domain.OrderRepository,
	history *SagaHistory,
	eventPublisher events.Publisher,
) *ProcessShipmentOutcome {
	return &ProcessShipmentOutcome{
		orderRepository: orderRepository,
		history:         history,
		eventPublisher:  eventPublisher,
	}
}

// Execute applies the shipment transition
func (uc *ProcessShipmentOutcome) Execute(ctx context.Context, cmd *ShipmentOutcomeCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "process_shipment_outcome",
		trace.WithAttributes(
			attribute.String("order_id", cmd.OrderID.String()),
			attribute.Bool("created", cmd.Created),
			attribute.String("shipment_status", cmd.Status),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_operations_total", "Total order operations", 1,
			attribute.String("operation", "process_shipment_outcome"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "process_shipment_outcome"),
			attribute.String("status", status),
		)
	}()

	order, ok, err := loadSagaOrder(ctx, uc.orderRepository, cmd.CorrelationID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if !ok {
		status = "ignored"
		return nil
	}

	if cmd.Created {
		if err := order.MarkShipped(); err != nil {
			status = "ignored"
			return ignoreInvalidTransition(err, order)
		}

		if err := uc.orderRepository.Save(ctx, order); err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "failed to save order")
		}

		status = "success"
		return nil
	}

	if !strings.EqualFold(cmd.Status, "delivered") {
		status = "ignored"
		return nil
	}

	if err := order.Complete(); err != nil {
		status = "ignored"
		return ignoreInvalidTransition(err, order)
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save order")
	}

	completedEvent := events.NewEvent(
		events.OrderCompletedEvent,
		events.OrderServiceSource,
		events.OrderEventsChannel,
		events.OrderStatusData{
			OrderID: order.ID,
			Status:  string(order.Status),
		},
	).WithCorrelationID(order.CorrelationID)

	uc.history.Append(ctx, completedEvent)

	if err := uc.eventPublisher.Publish(ctx, completedEvent); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to publish order completed event")
	}

	status = "completed"
	return nil
}

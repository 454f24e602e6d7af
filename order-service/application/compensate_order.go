package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CompensateOrder rolls back the one step that committed shared state before
// payment failed: the inventory reservation. The order is parked in
// COMPENSATING first, the unreserve request is durably emitted, and only
// then is the order declared FAILED. If the process dies between those
// steps, the redelivered payment outcome finds the order in COMPENSATING
// and finishes the sequence; the unreserve operation downstream is
// idempotent, so a second request is harmless.
type CompensateOrder struct {
	orderRepository domain.OrderRepository
	history         *SagaHistory
	eventPublisher  events.Publisher
}

// NewCompensateOrder creates a new CompensateOrder use case
func NewCompensateOrder(
	orderRepository domain.OrderRepository,
	history *SagaHistory,
	eventPublisher events.Publisher,
) *CompensateOrder {
	return &CompensateOrder{
		orderRepository: orderRepository,
		history:         history,
		eventPublisher:  eventPublisher,
	}
}

// Execute runs the compensation sequence for the given order
func (uc *CompensateOrder) Execute(ctx context.Context, order *domain.Order, reason string) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "compensate_order",
		trace.WithAttributes(
			attribute.String("order_id", order.ID.String()),
			attribute.String("reason", reason),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_compensations_total", "Total order compensations", 1,
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "compensate_order"),
			attribute.String("status", status),
		)
	}()

	if order.Status != domain.OrderStatusCompensating {
		if err := order.BeginCompensation(reason); err != nil {
			return err
		}

		if err := uc.orderRepository.Save(ctx, order); err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "failed to save compensating order")
		}
	}

	// Durably emit the unreserve request before declaring the order failed
	releaseEvent := events.NewEvent(
		events.InventoryReleaseRequestedEvent,
		events.OrderServiceSource,
		events.OrderEventsChannel,
		events.InventoryReleaseRequestedData{
			OrderID: order.ID,
			Items:   toItemData(order.Items),
		},
	).WithCorrelationID(order.CorrelationID)

	uc.history.Append(ctx, releaseEvent)

	if err := uc.eventPublisher.Publish(ctx, releaseEvent); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to publish inventory release request")
	}

	if err := order.MarkFailed(); err != nil {
		return err
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save failed order")
	}

	failedEvent := events.NewEvent(
		events.OrderFailedEvent,
		events.OrderServiceSource,
		events.OrderEventsChannel,
		events.OrderStatusData{
			OrderID: order.ID,
			Status:  string(order.Status),
			Reason:  order.FailureReason,
		},
	).WithCorrelationID(order.CorrelationID)

	uc.history.Append(ctx, failedEvent)

	if err := uc.eventPublisher.Publish(ctx, failedEvent); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to publish order failed event")
	}

	status = "success"
	return nil
}

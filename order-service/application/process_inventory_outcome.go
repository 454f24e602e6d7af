package application

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InventoryOutcomeCommand represents a reservation outcome event
type InventoryOutcomeCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
	Reserved      bool
	Reason        string
}

// ProcessInventoryOutcome folds a reservation outcome into the order's
// lifecycle state. A failed reservation fails the order without
// compensation: nothing was committed downstream yet.
type ProcessInventoryOutcome struct {
	orderRepository domain.OrderRepository
	history         *SagaHistory
	eventPublisher  events.Publisher
}

// NewProcessInventoryOutcome creates a new ProcessInventoryOutcome use case
func NewProcessInventoryOutcome(
	orderRepository domain.OrderRepository,
	history *SagaHistory,
	eventPublisher events.Publisher,
) *ProcessInventoryOutcome {
	return &ProcessInventoryOutcome{
		orderRepository: orderRepository,
		history:         history,
		eventPublisher:  eventPublisher,
	}
}

// Execute applies the reservation outcome transition
func (uc *ProcessInventoryOutcome) Execute(ctx context.Context, cmd *InventoryOutcomeCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "process_inventory_outcome",
		trace.WithAttributes(
			attribute.String("order_id", cmd.OrderID.String()),
			attribute.Bool("reserved", cmd.Reserved),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_operations_total", "Total order operations", 1,
			attribute.String("operation", "process_inventory_outcome"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "process_inventory_outcome"),
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

	if cmd.Reserved {
		if err := order.MarkInventoryReserved(); err != nil {
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

	if err := order.MarkInventoryFailed(cmd.Reason); err != nil {
		status = "ignored"
		return ignoreInvalidTransition(err, order)
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save order")
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

	status = "failed_order"
	return nil
}

// loadSagaOrder resolves the order an event belongs to. A missing order is
// a logic fault: it is logged and the event acknowledged, because retrying
// cannot make the order appear.
func loadSagaOrder(ctx context.Context, repo domain.OrderRepository, correlationID models.ID) (*domain.Order, bool, error) {
	order, err := repo.FindByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to find order")
	}

	if order == nil {
		log.Printf("no order for correlation id %s, dropping event", correlationID)
		return nil, false, nil
	}

	if order.Status.IsTerminal() {
		log.Printf("order %s already %s, dropping event", order.ID, order.Status)
		return nil, false, nil
	}

	return order, true, nil
}

// ignoreInvalidTransition acknowledges out-of-sequence events instead of
// retrying them forever
func ignoreInvalidTransition(err error, order *domain.Order) error {
	if errors.Is(err, domain.ErrInvalidTransition) {
		log.Printf("order %s in state %s: %v", order.ID, order.Status, err)
		return nil
	}
	return err
}

package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PaymentOutcomeCommand represents a payment outcome event
type PaymentOutcomeCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
	Processed     bool
	Reason        string
}

// ProcessPaymentOutcome folds a payment outcome into the order's lifecycle
// state. A failed or fraud-blocked payment after a successful reservation is
// the one place the saga must compensate, so that path is delegated to the
// compensation coordinator.
type ProcessPaymentOutcome struct {
	orderRepository domain.OrderRepository
	compensateOrder *CompensateOrder
}

// NewProcessPaymentOutcome creates a new ProcessPaymentOutcome use case
func NewProcessPaymentOutcome(
	orderRepository domain.OrderRepository,
	compensateOrder *CompensateOrder,
) *ProcessPaymentOutcome {
	return &ProcessPaymentOutcome{
		orderRepository: orderRepository,
		compensateOrder: compensateOrder,
	}
}

// Execute applies the payment outcome transition
func (uc *ProcessPaymentOutcome) Execute(ctx context.Context, cmd *PaymentOutcomeCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "process_payment_outcome",
		trace.WithAttributes(
			attribute.String("order_id", cmd.OrderID.String()),
			attribute.Bool("processed", cmd.Processed),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_operations_total", "Total order operations", 1,
			attribute.String("operation", "process_payment_outcome"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "process_payment_outcome"),
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

	if cmd.Processed {
		if err := order.MarkPaymentProcessed(); err != nil {
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

	// Payment failed after the reservation committed stock; unwind it. An
	// order already parked in COMPENSATING resumes the sequence.
	if order.Status != domain.OrderStatusInventoryReserved && order.Status != domain.OrderStatusCompensating {
		status = "ignored"
		return ignoreInvalidTransition(
			errors.Wrapf(domain.ErrInvalidTransition, "payment failure in state %s", order.Status), order)
	}

	if err := uc.compensateOrder.Execute(ctx, order, cmd.Reason); err != nil {
		span.RecordError(err)
		return err
	}

	status = "compensated"
	return nil
}

package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReleaseStockCommand represents the compensation request to unreserve stock
type ReleaseStockCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
}

// ReleaseStock use case applies the inventory compensation: it moves the
// quantities of an order's reservation back from reserved to available.
// A redelivered release request for an already released reservation just
// re-emits the confirmation. A release that cannot be applied is routed to
// the dead-letter channel because it is state drift an operator must see.
type ReleaseStock struct {
	productRepository     domain.ProductRepository
	reservationRepository domain.ReservationRepository
	inventoryStore        domain.InventoryStore
	eventPublisher        events.Publisher
}

// NewReleaseStock creates a new ReleaseStock use case
func NewReleaseStock(
	productRepository domain.ProductRepository,
	reservationRepository domain.ReservationRepository,
	inventoryStore domain.InventoryStore,
	eventPublisher events.Publisher,
) *ReleaseStock {
	return &ReleaseStock{
		productRepository:     productRepository,
		reservationRepository: reservationRepository,
		inventoryStore:        inventoryStore,
		eventPublisher:        eventPublisher,
	}
}

// Execute releases the reserved stock for an order
func (uc *ReleaseStock) Execute(ctx context.Context, cmd *ReleaseStockCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "release_stock",
		trace.WithAttributes(attribute.String("order_id", cmd.OrderID.String())),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "inventory_operations_total", "Total inventory operations", 1,
			attribute.String("operation", "release_stock"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "inventory_operation_duration_seconds", "Inventory operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "release_stock"),
			attribute.String("status", status),
		)
	}()

	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	reservation, err := uc.reservationRepository.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to find reservation")
	}

	if reservation == nil {
		status = "drift"
		return uc.publishCompensationFailed(ctx, cmd, "no reservation found for order")
	}

	switch reservation.Status {
	case domain.ReservationStatusReleased:
		// Redelivered compensation request, confirm again
		status = "duplicate"
		return uc.publishReleased(ctx, cmd, reservation)
	case domain.ReservationStatusCompleted:
		status = "drift"
		return uc.publishCompensationFailed(ctx, cmd, "reservation already completed as a sale")
	}

	products := make([]*domain.Product, 0, len(reservation.Lines))
	for _, line := range reservation.Lines {
		product, err := uc.productRepository.FindByID(ctx, line.ProductID)
		if err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "failed to find product")
		}

		if product == nil {
			status = "drift"
			return uc.publishCompensationFailed(ctx, cmd, "reserved product no longer exists")
		}

		if err := product.Release(line.Quantity); err != nil {
			status = "drift"
			span.RecordError(err)
			return uc.publishCompensationFailed(ctx, cmd, err.Error())
		}

		products = append(products, product)
	}

	// Restore stock and mark the reservation released in one commit, so
	// a redelivered release request never finds stock restored but the
	// reservation still open (that would read as drift, not a duplicate)
	reservation.MarkReleased()
	if err := uc.inventoryStore.Apply(ctx, reservation, products); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to commit release")
	}

	status = "success"
	return uc.publishReleased(ctx, cmd, reservation)
}

func (uc *ReleaseStock) publishReleased(ctx context.Context, cmd *ReleaseStockCommand, reservation *domain.Reservation) error {
	items := make([]events.OrderItemData, len(reservation.Lines))
	for i, line := range reservation.Lines {
		items[i] = events.OrderItemData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	event := events.NewEvent(
		events.InventoryReleasedEvent,
		events.InventoryServiceSource,
		events.InventoryEventsChannel,
		events.InventoryReleasedData{
			OrderID: cmd.OrderID,
			Items:   items,
		},
	).WithCorrelationID(cmd.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish inventory released event")
	}

	return nil
}

func (uc *ReleaseStock) publishCompensationFailed(ctx context.Context, cmd *ReleaseStockCommand, reason string) error {
	event := events.NewEvent(
		events.CompensationFailedEvent,
		events.InventoryServiceSource,
		events.DeadLetterChannel,
		events.CompensationFailedData{
			OrderID: cmd.OrderID,
			Reason:  reason,
		},
	).WithCorrelationID(cmd.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish compensation failed event")
	}

	return nil
}

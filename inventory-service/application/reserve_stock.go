package application

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReserveStockCommand represents the command to reserve stock for an order
type ReserveStockCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
	CustomerID    models.ID
	Items         []events.OrderItemData
	Total         models.Money
}

// ReserveStock use case attempts to reserve every line item of an order.
// The reservation is all-or-nothing: if any line has insufficient stock no
// product is mutated and an inventory.failed event carries the shortfall.
// Re-running the same order id re-emits the recorded outcome instead of
// double-decrementing stock.
type ReserveStock struct {
	productRepository     domain.ProductRepository
	reservationRepository domain.ReservationRepository
	inventoryStore        domain.InventoryStore
	eventPublisher        events.Publisher
}

// NewReserveStock creates a new ReserveStock use case
func NewReserveStock(
	productRepository domain.ProductRepository,
	reservationRepository domain.ReservationRepository,
	inventoryStore domain.InventoryStore,
	eventPublisher events.Publisher,
) *ReserveStock {
	return &ReserveStock{
		productRepository:     productRepository,
		reservationRepository: reservationRepository,
		inventoryStore:        inventoryStore,
		eventPublisher:        eventPublisher,
	}
}

// Execute reserves stock and publishes the reservation outcome
func (uc *ReserveStock) Execute(ctx context.Context, cmd *ReserveStockCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "reserve_stock",
		trace.WithAttributes(
			attribute.String("order_id", cmd.OrderID.String()),
			attribute.Int("line_items", len(cmd.Items)),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		duration := time.Since(start)
		telemetry.RecordCounter(ctx, "inventory_operations_total", "Total inventory operations", 1,
			attribute.String("operation", "reserve_stock"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "inventory_operation_duration_seconds", "Inventory operation duration", duration.Seconds(),
			attribute.String("operation", "reserve_stock"),
			attribute.String("status", status),
		)
	}()

	if err := uc.validateCommand(cmd); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "invalid command")
	}

	// Dedup on order id: a redelivered order.created must not reserve twice
	existing, err := uc.reservationRepository.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to check existing reservation")
	}

	if existing != nil {
		status = "duplicate"
		span.SetAttributes(attribute.Bool("duplicate", true))
		return uc.publishReserved(ctx, cmd)
	}

	// Load every product first so a partial shortfall mutates nothing
	products := make([]*domain.Product, len(cmd.Items))
	for i, item := range cmd.Items {
		product, err := uc.productRepository.FindByID(ctx, item.ProductID)
		if err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "failed to find product")
		}

		if product == nil {
			// Local non-retryable failure: the order references a product
			// this service does not know
			status = "failed"
			reason := fmt.Sprintf("product %s not found", item.ProductID)
			return uc.publishFailed(ctx, cmd, reason)
		}

		if !product.HasEnoughStock(item.Quantity) {
			status = "failed"
			reason := fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
				product.SKU, item.Quantity, product.AvailableQuantity)
			return uc.publishFailed(ctx, cmd, reason)
		}

		products[i] = product
	}

	lines := make([]domain.ReservationLine, len(cmd.Items))
	for i, item := range cmd.Items {
		if err := products[i].Reserve(item.Quantity); err != nil {
			status = "failed"
			return uc.publishFailed(ctx, cmd, err.Error())
		}

		lines[i] = domain.ReservationLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	// The stock decrement and the reservation row commit together. A
	// failure here leaves stock untouched, so the redelivered event can
	// safely run the whole reserve again.
	reservation := domain.NewReservation(cmd.OrderID, lines)
	if err := uc.inventoryStore.Apply(ctx, reservation, products); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to commit reservation")
	}

	status = "success"
	return uc.publishReserved(ctx, cmd)
}

func (uc *ReserveStock) publishReserved(ctx context.Context, cmd *ReserveStockCommand) error {
	event := events.NewEvent(
		events.InventoryReservedEvent,
		events.InventoryServiceSource,
		events.InventoryEventsChannel,
		events.InventoryReservedData{
			OrderID:    cmd.OrderID,
			CustomerID: cmd.CustomerID,
			Items:      cmd.Items,
			Amount:     cmd.Total,
		},
	).WithCorrelationID(cmd.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish inventory reserved event")
	}

	return nil
}

func (uc *ReserveStock) publishFailed(ctx context.Context, cmd *ReserveStockCommand, reason string) error {
	event := events.NewEvent(
		events.InventoryFailedEvent,
		events.InventoryServiceSource,
		events.InventoryEventsChannel,
		events.InventoryFailedData{
			OrderID: cmd.OrderID,
			Reason:  reason,
		},
	).WithCorrelationID(cmd.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish inventory failed event")
	}

	return nil
}

func (uc *ReserveStock) validateCommand(cmd *ReserveStockCommand) error {
	if cmd.CorrelationID == "" {
		return errors.New("correlation ID is required")
	}

	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	if len(cmd.Items) == 0 {
		return errors.New("at least one line item is required")
	}

	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return errors.New("product ID is required")
		}
		if item.Quantity <= 0 {
			return errors.New("quantity must be positive")
		}
	}

	return nil
}

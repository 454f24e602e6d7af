package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CompleteSaleCommand marks an order's reservation as sold once it ships
type CompleteSaleCommand struct {
	OrderID models.ID
}

// CompleteSale use case converts a reservation into a completed sale:
// the reserved quantities leave stock entirely. Idempotent on order id.
type CompleteSale struct {
	productRepository     domain.ProductRepository
	reservationRepository domain.ReservationRepository
	inventoryStore        domain.InventoryStore
}

// NewCompleteSale creates a new CompleteSale use case
func NewCompleteSale(
	productRepository domain.ProductRepository,
	reservationRepository domain.ReservationRepository,
	inventoryStore domain.InventoryStore,
) *CompleteSale {
	return &CompleteSale{
		productRepository:     productRepository,
		reservationRepository: reservationRepository,
		inventoryStore:        inventoryStore,
	}
}

// Execute completes the sale for an order
func (uc *CompleteSale) Execute(ctx context.Context, cmd *CompleteSaleCommand) error {
	ctx, span := telemetry.StartSpan(ctx, "complete_sale",
		trace.WithAttributes(attribute.String("order_id", cmd.OrderID.String())),
	)
	defer span.End()

	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	reservation, err := uc.reservationRepository.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to find reservation")
	}

	if reservation == nil {
		// Shipment for an unknown reservation is a logic fault; nothing to do
		return nil
	}

	if reservation.Status != domain.ReservationStatusReserved {
		return nil
	}

	products := make([]*domain.Product, 0, len(reservation.Lines))
	for _, line := range reservation.Lines {
		product, err := uc.productRepository.FindByID(ctx, line.ProductID)
		if err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "failed to find product")
		}

		if product == nil {
			continue
		}

		if err := product.CompleteSale(line.Quantity); err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "failed to complete sale")
		}

		products = append(products, product)
	}

	// Consumed stock and the completed reservation commit together
	reservation.MarkCompleted()
	if err := uc.inventoryStore.Apply(ctx, reservation, products); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to commit sale completion")
	}

	return nil
}

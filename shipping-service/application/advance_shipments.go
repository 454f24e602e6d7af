package application

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"github.com/quickcart/fulfillment-system/shipping-service/domain"
	"go.opentelemetry.io/otel/attribute"
)

// AdvanceShipments is the carrier simulation: each run moves every
// in-progress shipment one step along the delivery path and publishes
// shipment.updated for it. One failing shipment does not stop the sweep.
type AdvanceShipments struct {
	shipmentRepository domain.ShipmentRepository
	eventPublisher     events.Publisher
}

// NewAdvanceShipments creates a new AdvanceShipments use case
func NewAdvanceShipments(
	shipmentRepository domain.ShipmentRepository,
	eventPublisher events.Publisher,
) *AdvanceShipments {
	return &AdvanceShipments{
		shipmentRepository: shipmentRepository,
		eventPublisher:     eventPublisher,
	}
}

// Execute advances all in-progress shipments
func (uc *AdvanceShipments) Execute(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "advance_shipments")
	defer span.End()

	shipments, err := uc.shipmentRepository.FindActive(ctx)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to load active shipments")
	}

	span.SetAttributes(attribute.Int("active_shipments", len(shipments)))

	for _, shipment := range shipments {
		if err := uc.advance(ctx, shipment); err != nil {
			log.Printf("failed to advance shipment %s: %v", shipment.ID, err)
		}
	}

	return nil
}

func (uc *AdvanceShipments) advance(ctx context.Context, shipment *domain.Shipment) error {
	if err := shipment.Advance(); err != nil {
		return err
	}

	if err := uc.shipmentRepository.Save(ctx, shipment); err != nil {
		return errors.Wrap(err, "failed to save shipment")
	}

	event := events.NewEvent(
		events.ShipmentUpdatedEvent,
		events.ShippingServiceSource,
		events.ShippingEventsChannel,
		events.ShipmentUpdatedData{
			OrderID:        shipment.OrderID,
			ShipmentID:     shipment.ID,
			TrackingNumber: shipment.TrackingNumber,
			Status:         string(shipment.Status),
		},
	).WithCorrelationID(shipment.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish shipment updated event")
	}

	telemetry.RecordCounter(ctx, "shipping_operations_total", "Total shipping operations", 1,
		attribute.String("operation", "advance_shipment"),
		attribute.String("status", string(shipment.Status)),
	)

	return nil
}

// Run drives the simulation on a fixed interval until the context is done
func (uc *AdvanceShipments) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.Execute(ctx); err != nil {
				log.Printf("carrier simulation sweep failed: %v", err)
			}
		}
	}
}

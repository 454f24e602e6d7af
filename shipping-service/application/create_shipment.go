package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"github.com/quickcart/fulfillment-system/shipping-service/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var carriers = []string{"FedEx", "UPS", "DHL", "USPS"}

// CreateShipmentCommand represents the command to create a shipment
type CreateShipmentCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
}

// CreateShipment use case reacts to a completed payment by handing the order
// to a simulated carrier. A redelivered trigger re-emits the existing
// shipment instead of creating a second one.
type CreateShipment struct {
	shipmentRepository domain.ShipmentRepository
	entropy            domain.EntropySource
	eventPublisher     events.Publisher
}

// NewCreateShipment creates a new CreateShipment use case
func NewCreateShipment(
	shipmentRepository domain.ShipmentRepository,
	entropy domain.EntropySource,
	eventPublisher events.Publisher,
) *CreateShipment {
	return &CreateShipment{
		shipmentRepository: shipmentRepository,
		entropy:            entropy,
		eventPublisher:     eventPublisher,
	}
}

// Execute creates the shipment and publishes shipment.created
func (uc *CreateShipment) Execute(ctx context.Context, cmd *CreateShipmentCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "create_shipment",
		trace.WithAttributes(attribute.String("order_id", cmd.OrderID.String())),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "shipping_operations_total", "Total shipping operations", 1,
			attribute.String("operation", "create_shipment"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "shipping_operation_duration_seconds", "Shipping operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "create_shipment"),
			attribute.String("status", status),
		)
	}()

	if cmd.CorrelationID == "" {
		return errors.New("correlation ID is required")
	}

	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	// Dedup on order id: one shipment per order, ever
	existing, err := uc.shipmentRepository.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to find existing shipment")
	}

	if existing != nil {
		status = "duplicate"
		span.SetAttributes(attribute.Bool("duplicate", true))
		return uc.publishCreated(ctx, existing)
	}

	shipment, err := domain.CreateShipment(
		cmd.OrderID,
		cmd.CorrelationID,
		uc.generateTrackingNumber(),
		uc.selectCarrier(),
		uc.estimateDelivery(),
	)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to create shipment")
	}

	if err := uc.shipmentRepository.Save(ctx, shipment); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save shipment")
	}

	status = "success"
	return uc.publishCreated(ctx, shipment)
}

func (uc *CreateShipment) publishCreated(ctx context.Context, shipment *domain.Shipment) error {
	event := events.NewEvent(
		events.ShipmentCreatedEvent,
		events.ShippingServiceSource,
		events.ShippingEventsChannel,
		events.ShipmentCreatedData{
			OrderID:           shipment.OrderID,
			ShipmentID:        shipment.ID,
			TrackingNumber:    shipment.TrackingNumber,
			Carrier:           shipment.Carrier,
			EstimatedDelivery: shipment.EstimatedDelivery,
		},
	).WithCorrelationID(shipment.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish shipment created event")
	}

	return nil
}

func (uc *CreateShipment) generateTrackingNumber() string {
	suffix := strings.ToUpper(models.GenerateUUID().String()[:8])
	return fmt.Sprintf("TRK-%d-%s", time.Now().UnixMilli(), suffix)
}

func (uc *CreateShipment) selectCarrier() string {
	return carriers[uc.entropy.Intn(len(carriers))]
}

// estimateDelivery picks a date 3 to 5 days out
func (uc *CreateShipment) estimateDelivery() time.Time {
	days := 3 + uc.entropy.Intn(3)
	return time.Now().AddDate(0, 0, days)
}

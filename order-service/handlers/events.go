package handlers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/application"
	"github.com/quickcart/fulfillment-system/shared/events"
)

// OrderEventHandlers is the inbound edge of the saga orchestrator: every
// outcome event from the downstream services lands here and is folded into
// the order state machine. Recognized events are also appended to the
// order's history stream before they are applied.
type OrderEventHandlers struct {
	processInventoryOutcome *application.ProcessInventoryOutcome
	processPaymentOutcome   *application.ProcessPaymentOutcome
	processShipmentOutcome  *application.ProcessShipmentOutcome
	history                 *application.SagaHistory
}

// NewOrderEventHandlers creates new order event handlers
func NewOrderEventHandlers(
	processInventoryOutcome *application.ProcessInventoryOutcome,
	processPaymentOutcome *application.ProcessPaymentOutcome,
	processShipmentOutcome *application.ProcessShipmentOutcome,
	history *application.SagaHistory,
) *OrderEventHandlers {
	return &OrderEventHandlers{
		processInventoryOutcome: processInventoryOutcome,
		processPaymentOutcome:   processPaymentOutcome,
		processShipmentOutcome:  processShipmentOutcome,
		history:                 history,
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *OrderEventHandlers) HandlerID() string {
	return "order-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *OrderEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.InventoryReservedEvent:
		h.history.Append(ctx, event)
		return h.handleInventoryReserved(ctx, event)
	case events.InventoryFailedEvent:
		h.history.Append(ctx, event)
		return h.handleInventoryFailed(ctx, event)
	case events.PaymentProcessedEvent:
		h.history.Append(ctx, event)
		return h.handlePaymentProcessed(ctx, event)
	case events.PaymentFailedEvent, events.PaymentFraudDetectedEvent:
		h.history.Append(ctx, event)
		return h.handlePaymentFailed(ctx, event)
	case events.ShipmentCreatedEvent:
		h.history.Append(ctx, event)
		return h.handleShipmentCreated(ctx, event)
	case events.ShipmentUpdatedEvent:
		h.history.Append(ctx, event)
		return h.handleShipmentUpdated(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

func (h *OrderEventHandlers) handleInventoryReserved(ctx context.Context, event *events.Event) error {
	var data events.InventoryReservedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse inventory reserved data")
	}

	return h.processInventoryOutcome.Execute(ctx, &application.InventoryOutcomeCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		Reserved:      true,
	})
}

func (h *OrderEventHandlers) handleInventoryFailed(ctx context.Context, event *events.Event) error {
	var data events.InventoryFailedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse inventory failed data")
	}

	return h.processInventoryOutcome.Execute(ctx, &application.InventoryOutcomeCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		Reserved:      false,
		Reason:        data.Reason,
	})
}

func (h *OrderEventHandlers) handlePaymentProcessed(ctx context.Context, event *events.Event) error {
	var data events.PaymentProcessedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse payment processed data")
	}

	return h.processPaymentOutcome.Execute(ctx, &application.PaymentOutcomeCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		Processed:     true,
	})
}

func (h *OrderEventHandlers) handlePaymentFailed(ctx context.Context, event *events.Event) error {
	var data events.PaymentFailedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse payment failed data")
	}

	return h.processPaymentOutcome.Execute(ctx, &application.PaymentOutcomeCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		Processed:     false,
		Reason:        data.Reason,
	})
}

func (h *OrderEventHandlers) handleShipmentCreated(ctx context.Context, event *events.Event) error {
	var data events.ShipmentCreatedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse shipment created data")
	}

	return h.processShipmentOutcome.Execute(ctx, &application.ShipmentOutcomeCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		Created:       true,
	})
}

func (h *OrderEventHandlers) handleShipmentUpdated(ctx context.Context, event *events.Event) error {
	var data events.ShipmentUpdatedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse shipment updated data")
	}

	return h.processShipmentOutcome.Execute(ctx, &application.ShipmentOutcomeCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		Created:       false,
		Status:        data.Status,
	})
}

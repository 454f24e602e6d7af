package handlers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shipping-service/application"
)

// ShippingEventHandlers reacts to the saga events the shipping service owns.
// A successful payment is the only trigger; everything else on the channel
// is acknowledged without side effect.
type ShippingEventHandlers struct {
	createShipment *application.CreateShipment
}

// NewShippingEventHandlers creates new shipping event handlers
func NewShippingEventHandlers(createShipment *application.CreateShipment) *ShippingEventHandlers {
	return &ShippingEventHandlers{createShipment: createShipment}
}

// HandlerID returns the unique identifier for this event handler
func (h *ShippingEventHandlers) HandlerID() string {
	return "shipping-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *ShippingEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.PaymentProcessedEvent:
		return h.handlePaymentProcessed(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

func (h *ShippingEventHandlers) handlePaymentProcessed(ctx context.Context, event *events.Event) error {
	var data events.PaymentProcessedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse payment processed data")
	}

	cmd := &application.CreateShipmentCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
	}

	return h.createShipment.Execute(ctx, cmd)
}

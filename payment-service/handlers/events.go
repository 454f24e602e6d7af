package handlers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/payment-service/application"
	"github.com/quickcart/fulfillment-system/shared/events"
)

// PaymentEventHandlers reacts to the saga events the payment service owns.
// The only trigger is a successful reservation; everything else on the
// channel is acknowledged without side effect.
type PaymentEventHandlers struct {
	processPayment *application.ProcessPayment
}

// NewPaymentEventHandlers creates new payment event handlers
func NewPaymentEventHandlers(processPayment *application.ProcessPayment) *PaymentEventHandlers {
	return &PaymentEventHandlers{processPayment: processPayment}
}

// HandlerID returns the unique identifier for this event handler
func (h *PaymentEventHandlers) HandlerID() string {
	return "payment-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *PaymentEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.InventoryReservedEvent:
		return h.handleInventoryReserved(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

func (h *PaymentEventHandlers) handleInventoryReserved(ctx context.Context, event *events.Event) error {
	var data events.InventoryReservedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse inventory reserved data")
	}

	cmd := &application.ProcessPaymentCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		CustomerID:    data.CustomerID,
		Amount:        data.Amount,
	}

	return h.processPayment.Execute(ctx, cmd)
}

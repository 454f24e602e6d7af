package handlers

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/application"
	"github.com/quickcart/fulfillment-system/shared/events"
)

// InventoryEventHandlers reacts to the saga events the inventory service owns.
// Event types it does not own are acknowledged without side effect so that
// several event kinds can share one transport channel.
type InventoryEventHandlers struct {
	reserveStock *application.ReserveStock
	releaseStock *application.ReleaseStock
	completeSale *application.CompleteSale
}

// NewInventoryEventHandlers creates new inventory event handlers
func NewInventoryEventHandlers(
	reserveStock *application.ReserveStock,
	releaseStock *application.ReleaseStock,
	completeSale *application.CompleteSale,
) *InventoryEventHandlers {
	return &InventoryEventHandlers{
		reserveStock: reserveStock,
		releaseStock: releaseStock,
		completeSale: completeSale,
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *InventoryEventHandlers) HandlerID() string {
	return "inventory-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *InventoryEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.OrderCreatedEvent:
		return h.handleOrderCreated(ctx, event)
	case events.InventoryReleaseRequestedEvent:
		return h.handleReleaseRequested(ctx, event)
	case events.ShipmentCreatedEvent:
		return h.handleShipmentCreated(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

func (h *InventoryEventHandlers) handleOrderCreated(ctx context.Context, event *events.Event) error {
	var data events.OrderCreatedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse order created data")
	}

	cmd := &application.ReserveStockCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
		CustomerID:    data.CustomerID,
		Items:         data.Items,
		Total:         data.Total,
	}

	return h.reserveStock.Execute(ctx, cmd)
}

func (h *InventoryEventHandlers) handleReleaseRequested(ctx context.Context, event *events.Event) error {
	var data events.InventoryReleaseRequestedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse release requested data")
	}

	cmd := &application.ReleaseStockCommand{
		CorrelationID: event.CorrelationID,
		OrderID:       data.OrderID,
	}

	return h.releaseStock.Execute(ctx, cmd)
}

func (h *InventoryEventHandlers) handleShipmentCreated(ctx context.Context, event *events.Event) error {
	var data events.ShipmentCreatedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse shipment created data")
	}

	cmd := &application.CompleteSaleCommand{
		OrderID: data.OrderID,
	}

	if err := h.completeSale.Execute(ctx, cmd); err != nil {
		// Sale completion is bookkeeping; log and acknowledge so the
		// shipment event is not retried forever
		log.Printf("failed to complete sale for order %s: %v", data.OrderID, err)
		return nil
	}

	return nil
}

package application

import (
	"context"
	"log"

	"github.com/quickcart/fulfillment-system/shared/events"
)

// SagaHistory appends saga events to the per-correlation event stream so an
// order's full history can be replayed in delivery order. Recording is
// bookkeeping: a failed append is logged, never allowed to fail the saga.
type SagaHistory struct {
	store events.EventStore
}

// NewSagaHistory creates a new SagaHistory
func NewSagaHistory(store events.EventStore) *SagaHistory {
	return &SagaHistory{store: store}
}

// Append records one event at the tail of its correlation stream. Events of
// one correlation id are processed by a single worker, so reading the
// current stream length right before appending is race free.
func (h *SagaHistory) Append(ctx context.Context, event *events.Event) {
	existing, err := h.store.GetEvents(ctx, event.CorrelationID)
	if err != nil {
		log.Printf("failed to read event stream %s: %v", event.CorrelationID, err)
		return
	}

	if err := h.store.SaveEvents(ctx, event.CorrelationID, []*events.Event{event}, len(existing)); err != nil {
		log.Printf("failed to append event %s to stream %s: %v", event.EventType, event.CorrelationID, err)
	}
}

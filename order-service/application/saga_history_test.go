package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/order-service/mocks"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newTestHistory builds a SagaHistory whose store accepts any append. History
// recording is best-effort bookkeeping, so most tests only need it wired.
func newTestHistory(t *testing.T) *SagaHistory {
	store := mocks.NewMockEventStore(t)
	store.EXPECT().GetEvents(mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	store.EXPECT().SaveEvents(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewSagaHistory(store)
}

// sagaOrder drives a fresh order to the requested status through the real
// transitions
func sagaOrder(t *testing.T, status domain.OrderStatus) *domain.Order {
	t.Helper()

	order, err := domain.CreateOrder(models.GenerateUUID(), []domain.OrderItem{
		{ProductID: models.GenerateUUID(), Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
	})
	assert.NoError(t, err)

	switch status {
	case domain.OrderStatusPending:
	case domain.OrderStatusInventoryReserved:
		assert.NoError(t, order.MarkInventoryReserved())
	case domain.OrderStatusPaymentProcessed:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.MarkPaymentProcessed())
	case domain.OrderStatusShipped:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.MarkPaymentProcessed())
		assert.NoError(t, order.MarkShipped())
	case domain.OrderStatusCompensating:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.BeginCompensation("payment declined"))
	case domain.OrderStatusCompleted:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.MarkPaymentProcessed())
		assert.NoError(t, order.MarkShipped())
		assert.NoError(t, order.Complete())
	case domain.OrderStatusFailed:
		assert.NoError(t, order.MarkInventoryFailed("insufficient stock"))
	}

	assert.Equal(t, status, order.Status)
	return order
}

func TestSagaHistory_Append(t *testing.T) {
	correlationID := models.GenerateUUID()
	event := events.NewEvent(
		events.OrderCreatedEvent,
		events.OrderServiceSource,
		events.OrderEventsChannel,
		events.OrderCreatedData{OrderID: models.GenerateUUID()},
	).WithCorrelationID(correlationID)

	t.Run("appends at the current stream tail", func(t *testing.T) {
		store := mocks.NewMockEventStore(t)
		existing := []*events.Event{{ID: models.GenerateUUID()}, {ID: models.GenerateUUID()}}
		store.EXPECT().GetEvents(mock.Anything, correlationID).Return(existing, nil).Once()
		store.EXPECT().SaveEvents(mock.Anything, correlationID, []*events.Event{event}, 2).Return(nil).Once()

		NewSagaHistory(store).Append(context.Background(), event)
	})

	t.Run("read failure skips the append", func(t *testing.T) {
		store := mocks.NewMockEventStore(t)
		store.EXPECT().GetEvents(mock.Anything, correlationID).
			Return(nil, errors.New("store unavailable")).Once()

		// Bookkeeping must never fail the saga
		NewSagaHistory(store).Append(context.Background(), event)
	})

	t.Run("append failure is swallowed", func(t *testing.T) {
		store := mocks.NewMockEventStore(t)
		store.EXPECT().GetEvents(mock.Anything, correlationID).Return(nil, nil).Once()
		store.EXPECT().SaveEvents(mock.Anything, correlationID, mock.Anything, 0).
			Return(errors.New("version conflict")).Once()

		NewSagaHistory(store).Append(context.Background(), event)
	})
}

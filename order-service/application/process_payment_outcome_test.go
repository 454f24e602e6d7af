package application

import (
	"context"
	"testing"

	"github.com/quickcart/fulfillment-system/order-service/domain"
	"github.com/quickcart/fulfillment-system/order-service/mocks"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProcessPaymentOutcome_Execute_Processed(t *testing.T) {
	order := sagaOrder(t, domain.OrderStatusInventoryReserved)

	mockRepo := mocks.NewMockOrderRepository(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockRepo.EXPECT().FindByCorrelationID(mock.Anything, order.CorrelationID).Return(order, nil).Once()
	mockRepo.EXPECT().Save(mock.Anything, order).Return(nil).Once()

	compensate := NewCompensateOrder(mockRepo, newTestHistory(t), mockPublisher)
	useCase := NewProcessPaymentOutcome(mockRepo, compensate)

	err := useCase.Execute(context.Background(), &PaymentOutcomeCommand{
		CorrelationID: order.CorrelationID,
		OrderID:       order.ID,
		Processed:     true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentProcessed, order.Status)
}

func TestProcessPaymentOutcome_Execute_FailureCompensates(t *testing.T) {
	order := sagaOrder(t, domain.OrderStatusInventoryReserved)

	mockRepo := mocks.NewMockOrderRepository(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockRepo.EXPECT().FindByCorrelationID(mock.Anything, order.CorrelationID).Return(order, nil).Once()
	// One save for COMPENSATING, one for FAILED
	mockRepo.EXPECT().Save(mock.Anything, order).Return(nil).Twice()

	var published []*events.Event
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, evts ...*events.Event) {
			published = append(published, evts...)
		}).Return(nil).Twice()

	compensate := NewCompensateOrder(mockRepo, newTestHistory(t), mockPublisher)
	useCase := NewProcessPaymentOutcome(mockRepo, compensate)

	err := useCase.Execute(context.Background(), &PaymentOutcomeCommand{
		CorrelationID: order.CorrelationID,
		OrderID:       order.ID,
		Processed:     false,
		Reason:        "payment declined by gateway",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFailed, order.Status)
	assert.Equal(t, "payment declined by gateway", order.FailureReason)

	// The unreserve request must be emitted before the order is declared failed
	assert.Len(t, published, 2)
	assert.Equal(t, events.InventoryReleaseRequestedEvent, published[0].EventType)
	assert.Equal(t, events.OrderFailedEvent, published[1].EventType)
	assert.Equal(t, order.CorrelationID, published[0].CorrelationID)
	assert.Equal(t, order.CorrelationID, published[1].CorrelationID)

	var release events.InventoryReleaseRequestedData
	assert.NoError(t, published[0].UnmarshalPayload(&release))
	assert.Equal(t, order.ID, release.OrderID)
	assert.Len(t, release.Items, len(order.Items))
}

func TestProcessPaymentOutcome_Execute_ResumesInterruptedCompensation(t *testing.T) {
	// A crash after parking the order in COMPENSATING leaves the redelivered
	// payment failure to finish the sequence
	order := sagaOrder(t, domain.OrderStatusCompensating)

	mockRepo := mocks.NewMockOrderRepository(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockRepo.EXPECT().FindByCorrelationID(mock.Anything, order.CorrelationID).Return(order, nil).Once()
	// Only the FAILED save remains; COMPENSATING was already persisted
	mockRepo.EXPECT().Save(mock.Anything, order).Return(nil).Once()
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Twice()

	compensate := NewCompensateOrder(mockRepo, newTestHistory(t), mockPublisher)
	useCase := NewProcessPaymentOutcome(mockRepo, compensate)

	err := useCase.Execute(context.Background(), &PaymentOutcomeCommand{
		CorrelationID: order.CorrelationID,
		OrderID:       order.ID,
		Processed:     false,
		Reason:        "payment declined by gateway",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFailed, order.Status)
}

func TestProcessPaymentOutcome_Execute_LogicFaultsAreAcknowledged(t *testing.T) {
	tests := []struct {
		name  string
		order *domain.Order
	}{
		{name: "unknown correlation id", order: nil},
		{name: "order already failed", order: sagaOrder(t, domain.OrderStatusFailed)},
		{name: "payment failure before reservation", order: sagaOrder(t, domain.OrderStatusPending)},
		{name: "payment failure after shipment", order: sagaOrder(t, domain.OrderStatusShipped)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockOrderRepository(t)
			mockPublisher := mocks.NewMockPublisher(t)

			mockRepo.EXPECT().FindByCorrelationID(mock.Anything, mock.Anything).Return(tt.order, nil).Once()
			// No save or publish: the event is dropped, not retried

			compensate := NewCompensateOrder(mockRepo, newTestHistory(t), mockPublisher)
			useCase := NewProcessPaymentOutcome(mockRepo, compensate)

			err := useCase.Execute(context.Background(), &PaymentOutcomeCommand{
				CorrelationID: models.GenerateUUID(),
				OrderID:       models.GenerateUUID(),
				Processed:     false,
				Reason:        "payment declined",
			})

			assert.NoError(t, err)
		})
	}
}

func TestProcessPaymentOutcome_Execute_RedeliveredProcessedIsAcknowledged(t *testing.T) {
	order := sagaOrder(t, domain.OrderStatusPaymentProcessed)

	mockRepo := mocks.NewMockOrderRepository(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockRepo.EXPECT().FindByCorrelationID(mock.Anything, order.CorrelationID).Return(order, nil).Once()

	compensate := NewCompensateOrder(mockRepo, newTestHistory(t), mockPublisher)
	useCase := NewProcessPaymentOutcome(mockRepo, compensate)

	err := useCase.Execute(context.Background(), &PaymentOutcomeCommand{
		CorrelationID: order.CorrelationID,
		OrderID:       order.ID,
		Processed:     true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentProcessed, order.Status)
}

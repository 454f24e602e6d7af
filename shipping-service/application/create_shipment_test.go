package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shipping-service/domain"
	"github.com/quickcart/fulfillment-system/shipping-service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fixedEntropy pins the simulated carrier's randomness for tests
type fixedEntropy struct{ n int }

func (f fixedEntropy) Intn(int) int { return f.n }

func TestCreateShipment_Execute(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")

	existingShipment, err := domain.CreateShipment(
		orderID, correlationID, "TRK-1724744000000-ABCD1234", "DHL", time.Now().AddDate(0, 0, 4))
	assert.NoError(t, err)

	tests := []struct {
		name          string
		command       *CreateShipmentCommand
		setupMocks    func(*mocks.MockShipmentRepository, *mocks.MockPublisher)
		expectedError string
	}{
		{
			name:    "successful shipment creation",
			command: &CreateShipmentCommand{CorrelationID: correlationID, OrderID: orderID},
			setupMocks: func(repo *mocks.MockShipmentRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name:    "redelivered trigger re-emits the existing shipment",
			command: &CreateShipmentCommand{CorrelationID: correlationID, OrderID: orderID},
			setupMocks: func(repo *mocks.MockShipmentRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().FindByOrderID(mock.Anything, orderID).Return(existingShipment, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
				// No save: one shipment per order, ever
			},
			expectedError: "",
		},
		{
			name:    "repository error is returned for redelivery",
			command: &CreateShipmentCommand{CorrelationID: correlationID, OrderID: orderID},
			setupMocks: func(repo *mocks.MockShipmentRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().FindByOrderID(mock.Anything, orderID).
					Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to find existing shipment",
		},
		{
			name:    "validation error - empty correlation ID",
			command: &CreateShipmentCommand{OrderID: orderID},
			setupMocks: func(repo *mocks.MockShipmentRepository, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "correlation ID is required",
		},
		{
			name:    "validation error - empty order ID",
			command: &CreateShipmentCommand{CorrelationID: correlationID},
			setupMocks: func(repo *mocks.MockShipmentRepository, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "order ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockShipmentRepository(t)
			mockPublisher := mocks.NewMockPublisher(t)

			tt.setupMocks(mockRepo, mockPublisher)

			useCase := NewCreateShipment(mockRepo, fixedEntropy{n: 1}, mockPublisher)

			err := useCase.Execute(context.Background(), tt.command)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateShipment_Execute_EventCarriesShipmentDetails(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")

	mockRepo := mocks.NewMockShipmentRepository(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockRepo.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()

	var saved *domain.Shipment
	mockRepo.EXPECT().Save(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, shipment *domain.Shipment) {
			saved = shipment
		}).Return(nil).Once()

	var published *events.Event
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, evts ...*events.Event) {
			published = evts[0]
		}).Return(nil).Once()

	// entropy 1 picks UPS and a 4 day estimate
	useCase := NewCreateShipment(mockRepo, fixedEntropy{n: 1}, mockPublisher)

	err := useCase.Execute(context.Background(), &CreateShipmentCommand{
		CorrelationID: correlationID,
		OrderID:       orderID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "UPS", saved.Carrier)
	assert.Equal(t, correlationID, saved.CorrelationID)
	assert.True(t, strings.HasPrefix(saved.TrackingNumber, "TRK-"))
	assert.NotNil(t, saved.EstimatedDelivery)

	assert.Equal(t, events.ShipmentCreatedEvent, published.EventType)
	assert.Equal(t, correlationID, published.CorrelationID)
	assert.Equal(t, events.ShippingEventsChannel, published.Channel)

	var data events.ShipmentCreatedData
	assert.NoError(t, published.UnmarshalPayload(&data))
	assert.Equal(t, orderID, data.OrderID)
	assert.Equal(t, saved.TrackingNumber, data.TrackingNumber)
	assert.Equal(t, "UPS", data.Carrier)
}

package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/order-service/mocks"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateOrder_Execute(t *testing.T) {
	validCommand := &CreateOrderCommand{
		CustomerID: "550e8400-e29b-41d4-a716-446655440010",
		Items: []CreateOrderItemInput{
			{ProductID: "550e8400-e29b-41d4-a716-446655440030", Quantity: 2, UnitPrice: 2500},
			{ProductID: "550e8400-e29b-41d4-a716-446655440031", Quantity: 1, UnitPrice: 9900},
		},
	}

	tests := []struct {
		name          string
		command       *CreateOrderCommand
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockPublisher)
		expectedError string
	}{
		{
			name:    "successful order creation",
			command: validCommand,
			setupMocks: func(repo *mocks.MockOrderRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name: "missing customer ID",
			command: &CreateOrderCommand{
				Items: validCommand.Items,
			},
			setupMocks: func(repo *mocks.MockOrderRepository, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "customer ID is required",
		},
		{
			name: "no items",
			command: &CreateOrderCommand{
				CustomerID: validCommand.CustomerID,
			},
			setupMocks: func(repo *mocks.MockOrderRepository, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "order must have at least one item",
		},
		{
			name:    "repository save error",
			command: validCommand,
			setupMocks: func(repo *mocks.MockOrderRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().Save(mock.Anything, mock.Anything).
					Return(errors.New("database error")).Once()
			},
			expectedError: "failed to save order",
		},
		{
			name:    "publisher error",
			command: validCommand,
			setupMocks: func(repo *mocks.MockOrderRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).
					Return(errors.New("transport error")).Once()
			},
			expectedError: "failed to publish order created event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockOrderRepository(t)
			mockPublisher := mocks.NewMockPublisher(t)

			tt.setupMocks(mockRepo, mockPublisher)

			useCase := NewCreateOrder(mockRepo, newTestHistory(t), mockPublisher)

			response, err := useCase.Execute(context.Background(), tt.command)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, response)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, response.OrderID)
			assert.NotEmpty(t, response.CorrelationID)
			assert.Equal(t, "pending", response.Status)
		})
	}
}

func TestCreateOrder_Execute_RootEventCarriesCorrelationID(t *testing.T) {
	mockRepo := mocks.NewMockOrderRepository(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockRepo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()

	var published *events.Event
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, evts ...*events.Event) {
			published = evts[0]
		}).Return(nil).Once()

	useCase := NewCreateOrder(mockRepo, newTestHistory(t), mockPublisher)

	response, err := useCase.Execute(context.Background(), &CreateOrderCommand{
		CustomerID: "550e8400-e29b-41d4-a716-446655440010",
		Items: []CreateOrderItemInput{
			{ProductID: "550e8400-e29b-41d4-a716-446655440030", Quantity: 2, UnitPrice: 2500},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, events.OrderCreatedEvent, published.EventType)
	assert.Equal(t, events.OrderEventsChannel, published.Channel)
	assert.Equal(t, response.CorrelationID, published.CorrelationID)

	var data events.OrderCreatedData
	assert.NoError(t, published.UnmarshalPayload(&data))
	assert.Equal(t, response.OrderID, data.OrderID)
	assert.Equal(t, models.NewMoney(5000, "USD"), data.Total)
	assert.Len(t, data.Items, 1)
}

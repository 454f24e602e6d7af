package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/inventory-service/mocks"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testProduct(t *testing.T, sku string, available int) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(sku, sku, "", available)
	assert.NoError(t, err)
	return product
}

func TestReserveStock_Execute(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	customerID := models.ID("550e8400-e29b-41d4-a716-446655440010")
	productID := models.ID("550e8400-e29b-41d4-a716-446655440030")

	command := func(quantity int) *ReserveStockCommand {
		return &ReserveStockCommand{
			CorrelationID: correlationID,
			OrderID:       orderID,
			CustomerID:    customerID,
			Items: []events.OrderItemData{
				{ProductID: productID, Quantity: quantity, UnitPrice: models.NewMoney(2500, "USD")},
			},
			Total: models.NewMoney(int64(quantity)*2500, "USD"),
		}
	}

	tests := []struct {
		name          string
		command       *ReserveStockCommand
		setupMocks    func(*mocks.MockProductRepository, *mocks.MockReservationRepository, *mocks.MockInventoryStore, *mocks.MockPublisher)
		expectedError string
	}{
		{
			name:    "successful reservation",
			command: command(2),
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				reservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
				products.EXPECT().FindByID(mock.Anything, productID).Return(testProduct(t, "WIDGET-1", 10), nil).Once()
				store.EXPECT().Apply(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name:    "redelivered order re-emits the outcome without reserving twice",
			command: command(2),
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				existing := domain.NewReservation(orderID, []domain.ReservationLine{
					{ProductID: productID, Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
				})
				reservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(existing, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
				// No product loads or commits: stock is not decremented again
			},
			expectedError: "",
		},
		{
			name:    "insufficient stock emits a failure outcome",
			command: command(5),
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				reservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
				products.EXPECT().FindByID(mock.Anything, productID).Return(testProduct(t, "WIDGET-1", 2), nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
				// No commit: a shortfall mutates nothing
			},
			expectedError: "",
		},
		{
			name:    "unknown product emits a failure outcome",
			command: command(2),
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				reservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
				products.EXPECT().FindByID(mock.Anything, productID).Return(nil, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name:    "commit error is returned for redelivery",
			command: command(2),
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				reservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
				products.EXPECT().FindByID(mock.Anything, productID).Return(testProduct(t, "WIDGET-1", 10), nil).Once()
				store.EXPECT().Apply(mock.Anything, mock.Anything, mock.Anything).
					Return(errors.New("version conflict")).Once()
				// No publish: the transport retries the whole event
			},
			expectedError: "failed to commit reservation",
		},
		{
			name: "validation error - empty correlation ID",
			command: &ReserveStockCommand{
				OrderID: orderID,
				Items: []events.OrderItemData{
					{ProductID: productID, Quantity: 1, UnitPrice: models.NewMoney(2500, "USD")},
				},
			},
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "correlation ID is required",
		},
		{
			name: "validation error - no items",
			command: &ReserveStockCommand{
				CorrelationID: correlationID,
				OrderID:       orderID,
			},
			setupMocks: func(products *mocks.MockProductRepository, reservations *mocks.MockReservationRepository, store *mocks.MockInventoryStore, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "at least one line item is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProducts := mocks.NewMockProductRepository(t)
			mockReservations := mocks.NewMockReservationRepository(t)
			mockStore := mocks.NewMockInventoryStore(t)
			mockPublisher := mocks.NewMockPublisher(t)

			tt.setupMocks(mockProducts, mockReservations, mockStore, mockPublisher)

			useCase := NewReserveStock(mockProducts, mockReservations, mockStore, mockPublisher)

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

// A commit that fails after the dedup check must leave nothing behind:
// the retried event sees a clean table and reserves exactly once.
func TestReserveStock_Execute_FailedCommitRetriesCleanly(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	productID := models.ID("550e8400-e29b-41d4-a716-446655440030")

	command := &ReserveStockCommand{
		CorrelationID: correlationID,
		OrderID:       orderID,
		CustomerID:    models.GenerateUUID(),
		Items: []events.OrderItemData{
			{ProductID: productID, Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
		},
		Total: models.NewMoney(5000, "USD"),
	}

	mockProducts := mocks.NewMockProductRepository(t)
	mockReservations := mocks.NewMockReservationRepository(t)
	mockStore := mocks.NewMockInventoryStore(t)
	mockPublisher := mocks.NewMockPublisher(t)

	// Neither attempt finds a reservation row: the failed commit rolled
	// everything back, so each delivery reloads the unmutated product
	mockReservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Twice()
	mockProducts.EXPECT().FindByID(mock.Anything, productID).
		Return(testProduct(t, "WIDGET-1", 10), nil).Once()
	mockProducts.EXPECT().FindByID(mock.Anything, productID).
		Return(testProduct(t, "WIDGET-1", 10), nil).Once()

	mockStore.EXPECT().Apply(mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()

	var committed []*domain.Product
	mockStore.EXPECT().Apply(mock.Anything, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, reservation *domain.Reservation, products []*domain.Product) {
			committed = products
		}).Return(nil).Once()
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	useCase := NewReserveStock(mockProducts, mockReservations, mockStore, mockPublisher)

	err := useCase.Execute(context.Background(), command)
	assert.Error(t, err)

	// Redelivery of the same event
	assert.NoError(t, useCase.Execute(context.Background(), command))

	// One net reservation of 2 from 10
	assert.Len(t, committed, 1)
	assert.Equal(t, 8, committed[0].AvailableQuantity)
	assert.Equal(t, 2, committed[0].ReservedQuantity)
}

func TestReserveStock_Execute_OutcomeEvents(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	productID := models.ID("550e8400-e29b-41d4-a716-446655440030")

	t.Run("reserved event carries the order amount forward", func(t *testing.T) {
		mockProducts := mocks.NewMockProductRepository(t)
		mockReservations := mocks.NewMockReservationRepository(t)
		mockStore := mocks.NewMockInventoryStore(t)
		mockPublisher := mocks.NewMockPublisher(t)

		mockReservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
		mockProducts.EXPECT().FindByID(mock.Anything, productID).Return(testProduct(t, "WIDGET-1", 10), nil).Once()
		mockStore.EXPECT().Apply(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		var published *events.Event
		mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
			Run(func(ctx context.Context, evts ...*events.Event) {
				published = evts[0]
			}).Return(nil).Once()

		useCase := NewReserveStock(mockProducts, mockReservations, mockStore, mockPublisher)

		err := useCase.Execute(context.Background(), &ReserveStockCommand{
			CorrelationID: correlationID,
			OrderID:       orderID,
			CustomerID:    models.GenerateUUID(),
			Items: []events.OrderItemData{
				{ProductID: productID, Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
			},
			Total: models.NewMoney(5000, "USD"),
		})

		assert.NoError(t, err)
		assert.Equal(t, events.InventoryReservedEvent, published.EventType)
		assert.Equal(t, correlationID, published.CorrelationID)
		assert.Equal(t, events.InventoryEventsChannel, published.Channel)

		var data events.InventoryReservedData
		assert.NoError(t, published.UnmarshalPayload(&data))
		assert.Equal(t, orderID, data.OrderID)
		assert.Equal(t, models.NewMoney(5000, "USD"), data.Amount)
	})

	t.Run("failure event names the shortfall", func(t *testing.T) {
		mockProducts := mocks.NewMockProductRepository(t)
		mockReservations := mocks.NewMockReservationRepository(t)
		mockStore := mocks.NewMockInventoryStore(t)
		mockPublisher := mocks.NewMockPublisher(t)

		mockReservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
		mockProducts.EXPECT().FindByID(mock.Anything, productID).Return(testProduct(t, "WIDGET-1", 2), nil).Once()

		var published *events.Event
		mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
			Run(func(ctx context.Context, evts ...*events.Event) {
				published = evts[0]
			}).Return(nil).Once()

		useCase := NewReserveStock(mockProducts, mockReservations, mockStore, mockPublisher)

		err := useCase.Execute(context.Background(), &ReserveStockCommand{
			CorrelationID: correlationID,
			OrderID:       orderID,
			CustomerID:    models.GenerateUUID(),
			Items: []events.OrderItemData{
				{ProductID: productID, Quantity: 5, UnitPrice: models.NewMoney(2500, "USD")},
			},
			Total: models.NewMoney(12500, "USD"),
		})

		assert.NoError(t, err)
		assert.Equal(t, events.InventoryFailedEvent, published.EventType)
		assert.Equal(t, correlationID, published.CorrelationID)

		var data events.InventoryFailedData
		assert.NoError(t, published.UnmarshalPayload(&data))
		assert.Equal(t, orderID, data.OrderID)
		assert.Contains(t, data.Reason, "insufficient stock")
		assert.Contains(t, data.Reason, "requested 5, available 2")
	})
}

func TestReserveStock_Execute_AllOrNothing(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	firstProductID := models.ID("550e8400-e29b-41d4-a716-446655440030")
	secondProductID := models.ID("550e8400-e29b-41d4-a716-446655440031")

	mockProducts := mocks.NewMockProductRepository(t)
	mockReservations := mocks.NewMockReservationRepository(t)
	mockStore := mocks.NewMockInventoryStore(t)
	mockPublisher := mocks.NewMockPublisher(t)

	first := testProduct(t, "WIDGET-1", 10)
	second := testProduct(t, "WIDGET-2", 1)

	mockReservations.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
	mockProducts.EXPECT().FindByID(mock.Anything, firstProductID).Return(first, nil).Once()
	mockProducts.EXPECT().FindByID(mock.Anything, secondProductID).Return(second, nil).Once()
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
	// No commit: the second line's shortfall must leave the first untouched

	useCase := NewReserveStock(mockProducts, mockReservations, mockStore, mockPublisher)

	err := useCase.Execute(context.Background(), &ReserveStockCommand{
		CorrelationID: correlationID,
		OrderID:       orderID,
		CustomerID:    models.GenerateUUID(),
		Items: []events.OrderItemData{
			{ProductID: firstProductID, Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
			{ProductID: secondProductID, Quantity: 3, UnitPrice: models.NewMoney(1000, "USD")},
		},
		Total: models.NewMoney(8000, "USD"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 10, first.AvailableQuantity)
	assert.Equal(t, 0, first.ReservedQuantity)
}

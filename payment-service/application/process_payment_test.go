package application

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/payment-service/domain"
	"github.com/quickcart/fulfillment-system/payment-service/mocks"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fixedEntropy pins the non-deterministic risk component for tests
type fixedEntropy struct{ n int }

func (f fixedEntropy) Intn(int) int { return f.n }

func TestProcessPayment_Execute(t *testing.T) {
	validCorrelationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	validOrderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	validCustomerID := models.ID("550e8400-e29b-41d4-a716-446655440010")

	completedPayment := &domain.Payment{
		ID:         models.GenerateUUID(),
		OrderID:    validOrderID,
		CustomerID: validCustomerID,
		Amount:     models.NewMoney(5000, "USD"),
		Status:     domain.PaymentStatusCompleted,
		RiskScore:  15,
		Timestamps: models.NewTimestamps(),
		Version:    models.NewVersion(),
	}

	tests := []struct {
		name          string
		command       *ProcessPaymentCommand
		entropy       int
		setupMocks    func(*mocks.MockPaymentRepository, *mocks.MockIdempotencyGuard, *mocks.MockPaymentGateway, *mocks.MockPublisher)
		expectedError string
	}{
		{
			name: "successful authorization",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, "payment:processed:"+validOrderID.String()).Return(false, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(nil, nil).Once()
				gateway.EXPECT().Authorize(mock.Anything, validOrderID, models.NewMoney(5000, "USD")).Return("txn-123", nil).Once()
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
				guard.EXPECT().MarkApplied(mock.Anything, "payment:processed:"+validOrderID.String(), 24*time.Hour).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name: "duplicate trigger re-emits recorded outcome without a second charge",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, "payment:processed:"+validOrderID.String()).Return(true, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(completedPayment, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
				// No gateway or save expectations: a duplicate must not charge again
			},
			expectedError: "",
		},
		{
			name: "terminal row without a guard entry covers the crash window",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, "payment:processed:"+validOrderID.String()).Return(false, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(completedPayment, nil).Once()
				guard.EXPECT().MarkApplied(mock.Anything, "payment:processed:"+validOrderID.String(), 24*time.Hour).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name: "gateway decline records a failed payment",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, mock.Anything).Return(false, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(nil, nil).Once()
				gateway.EXPECT().Authorize(mock.Anything, validOrderID, mock.Anything).
					Return("", errors.New("insufficient funds")).Once()
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
				guard.EXPECT().MarkApplied(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedError: "",
		},
		{
			name: "high risk score blocks before the gateway is called",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(600000, "USD"),
			},
			entropy: 35,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, mock.Anything).Return(false, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(nil, nil).Once()
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
				guard.EXPECT().MarkApplied(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
				// No gateway expectation: blocked payments never reach it
			},
			expectedError: "",
		},
		{
			name: "guard check error is returned for redelivery",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, mock.Anything).
					Return(false, errors.New("store unavailable")).Once()
			},
			expectedError: "failed to check idempotency guard",
		},
		{
			name: "guard applied but payment row missing is drift",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, mock.Anything).Return(true, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(nil, nil).Once()
			},
			expectedError: "payment record not found for applied operation",
		},
		{
			name: "save error is returned for redelivery",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				guard.EXPECT().IsApplied(mock.Anything, mock.Anything).Return(false, nil).Once()
				repo.EXPECT().FindByOrderID(mock.Anything, validOrderID).Return(nil, nil).Once()
				gateway.EXPECT().Authorize(mock.Anything, validOrderID, mock.Anything).Return("txn-123", nil).Once()
				repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("version conflict")).Once()
			},
			expectedError: "failed to save payment",
		},
		{
			name: "validation error - empty correlation ID",
			command: &ProcessPaymentCommand{
				OrderID:    validOrderID,
				CustomerID: validCustomerID,
				Amount:     models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "correlation ID is required",
		},
		{
			name: "validation error - empty order ID",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(5000, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "order ID is required",
		},
		{
			name: "validation error - zero amount",
			command: &ProcessPaymentCommand{
				CorrelationID: validCorrelationID,
				OrderID:       validOrderID,
				CustomerID:    validCustomerID,
				Amount:        models.NewMoney(0, "USD"),
			},
			entropy: 10,
			setupMocks: func(repo *mocks.MockPaymentRepository, guard *mocks.MockIdempotencyGuard, gateway *mocks.MockPaymentGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedError: "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockPaymentRepository(t)
			mockGuard := mocks.NewMockIdempotencyGuard(t)
			mockGateway := mocks.NewMockPaymentGateway(t)
			mockPublisher := mocks.NewMockPublisher(t)

			tt.setupMocks(mockRepo, mockGuard, mockGateway, mockPublisher)

			evaluator := domain.NewRiskEvaluator(fixedEntropy{n: tt.entropy})
			useCase := NewProcessPayment(mockRepo, mockGuard, evaluator, mockGateway, mockPublisher)

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

func TestProcessPayment_Execute_OutcomeEvents(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	customerID := models.ID("550e8400-e29b-41d4-a716-446655440010")

	tests := []struct {
		name              string
		amount            models.Money
		entropy           int
		gatewayErr        error
		expectedEventType string
		expectGatewayCall bool
	}{
		{
			name:              "approved payment emits payment.processed",
			amount:            models.NewMoney(5000, "USD"),
			entropy:           10,
			expectedEventType: events.PaymentProcessedEvent,
			expectGatewayCall: true,
		},
		{
			name:              "declined payment emits payment.failed",
			amount:            models.NewMoney(5000, "USD"),
			entropy:           10,
			gatewayErr:        errors.New("insufficient funds"),
			expectedEventType: events.PaymentFailedEvent,
			expectGatewayCall: true,
		},
		{
			name:              "blocked payment emits payment.fraud.detected",
			amount:            models.NewMoney(600000, "USD"),
			entropy:           35,
			expectedEventType: events.PaymentFraudDetectedEvent,
			expectGatewayCall: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockPaymentRepository(t)
			mockGuard := mocks.NewMockIdempotencyGuard(t)
			mockGateway := mocks.NewMockPaymentGateway(t)
			mockPublisher := mocks.NewMockPublisher(t)

			mockGuard.EXPECT().IsApplied(mock.Anything, mock.Anything).Return(false, nil).Once()
			mockRepo.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
			if tt.expectGatewayCall {
				mockGateway.EXPECT().Authorize(mock.Anything, orderID, tt.amount).
					Return("txn-123", tt.gatewayErr).Once()
			}
			mockRepo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
			mockGuard.EXPECT().MarkApplied(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

			var published *events.Event
			mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
				Run(func(ctx context.Context, evts ...*events.Event) {
					published = evts[0]
				}).Return(nil).Once()

			evaluator := domain.NewRiskEvaluator(fixedEntropy{n: tt.entropy})
			useCase := NewProcessPayment(mockRepo, mockGuard, evaluator, mockGateway, mockPublisher)

			err := useCase.Execute(context.Background(), &ProcessPaymentCommand{
				CorrelationID: correlationID,
				OrderID:       orderID,
				CustomerID:    customerID,
				Amount:        tt.amount,
			})

			assert.NoError(t, err)
			assert.NotNil(t, published)
			assert.Equal(t, tt.expectedEventType, published.EventType)
			assert.Equal(t, correlationID, published.CorrelationID)
			assert.Equal(t, events.PaymentEventsChannel, published.Channel)
		})
	}
}

func TestProcessPayment_Execute_ProcessedEventCarriesRealAmount(t *testing.T) {
	correlationID := models.ID("550e8400-e29b-41d4-a716-446655440001")
	orderID := models.ID("550e8400-e29b-41d4-a716-446655440020")
	amount := models.NewMoney(123450, "USD")

	mockRepo := mocks.NewMockPaymentRepository(t)
	mockGuard := mocks.NewMockIdempotencyGuard(t)
	mockGateway := mocks.NewMockPaymentGateway(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockGuard.EXPECT().IsApplied(mock.Anything, mock.Anything).Return(false, nil).Once()
	mockRepo.EXPECT().FindByOrderID(mock.Anything, orderID).Return(nil, nil).Once()
	mockGateway.EXPECT().Authorize(mock.Anything, orderID, amount).Return("txn-456", nil).Once()
	mockRepo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
	mockGuard.EXPECT().MarkApplied(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	var published *events.Event
	mockPublisher.EXPECT().Publish(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, evts ...*events.Event) {
			published = evts[0]
		}).Return(nil).Once()

	// amount over $1000 scores 30 deterministic + 10 entropy, well below the block threshold
	evaluator := domain.NewRiskEvaluator(fixedEntropy{n: 10})
	useCase := NewProcessPayment(mockRepo, mockGuard, evaluator, mockGateway, mockPublisher)

	err := useCase.Execute(context.Background(), &ProcessPaymentCommand{
		CorrelationID: correlationID,
		OrderID:       orderID,
		CustomerID:    models.GenerateUUID(),
		Amount:        amount,
	})
	assert.NoError(t, err)

	var data events.PaymentProcessedData
	assert.NoError(t, published.UnmarshalPayload(&data))
	assert.Equal(t, orderID, data.OrderID)
	assert.Equal(t, amount, data.Amount)
	assert.Equal(t, 40, data.RiskScore)
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/payment-service/domain"
	"github.com/quickcart/fulfillment-system/shared/events"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// idempotencyTTL bounds the guard's memory; the business window for a
	// duplicate delivery is far shorter than this
	idempotencyTTL = 24 * time.Hour

	// gatewayTimeout bounds the external authorization call
	gatewayTimeout = 10 * time.Second
)

// ProcessPaymentCommand carries the real order amount and customer forward
// from the reservation outcome event
type ProcessPaymentCommand struct {
	CorrelationID models.ID
	OrderID       models.ID
	CustomerID    models.ID
	Amount        models.Money
}

// ProcessPayment use case runs the payment step of the saga: idempotency
// guard, risk scoring, then gateway authorization. It emits exactly one of
// payment.processed, payment.failed or payment.fraud.detected per distinct
// order, even when the triggering event is redelivered.
type ProcessPayment struct {
	paymentRepository domain.PaymentRepository
	idempotencyGuard  domain.IdempotencyGuard
	riskEvaluator     *domain.RiskEvaluator
	gateway           domain.PaymentGateway
	eventPublisher    events.Publisher
}

// NewProcessPayment creates a new ProcessPayment use case
func NewProcessPayment(
	paymentRepository domain.PaymentRepository,
	idempotencyGuard domain.IdempotencyGuard,
	riskEvaluator *domain.RiskEvaluator,
	gateway domain.PaymentGateway,
	eventPublisher events.Publisher,
) *ProcessPayment {
	return &ProcessPayment{
		paymentRepository: paymentRepository,
		idempotencyGuard:  idempotencyGuard,
		riskEvaluator:     riskEvaluator,
		gateway:           gateway,
		eventPublisher:    eventPublisher,
	}
}

// Execute processes the payment and publishes the outcome
func (uc *ProcessPayment) Execute(ctx context.Context, cmd *ProcessPaymentCommand) error {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "process_payment",
		trace.WithAttributes(
			attribute.String("order_id", cmd.OrderID.String()),
			attribute.Int64("amount", cmd.Amount.Amount),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "payment_operations_total", "Total payment operations", 1,
			attribute.String("operation", "process_payment"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "payment_operation_duration_seconds", "Payment operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "process_payment"),
			attribute.String("status", status),
		)
	}()

	if err := uc.validateCommand(cmd); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "invalid command")
	}

	operationKey := operationKey(cmd.OrderID)

	// Guard first: a redelivered reservation outcome must not charge twice
	applied, err := uc.idempotencyGuard.IsApplied(ctx, operationKey)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to check idempotency guard")
	}

	if applied {
		status = "duplicate"
		span.SetAttributes(attribute.Bool("duplicate", true))
		return uc.republishOutcome(ctx, cmd)
	}

	// The guard can report a false negative if we crashed between commit
	// and mark; the keyed payment row covers that window
	existing, err := uc.paymentRepository.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to find existing payment")
	}

	if existing != nil && existing.Status.IsTerminal() {
		status = "duplicate"
		if err := uc.idempotencyGuard.MarkApplied(ctx, operationKey, idempotencyTTL); err != nil {
			span.RecordError(err)
		}
		return uc.publishOutcomeFor(ctx, cmd.CorrelationID, existing)
	}

	payment, err := domain.CreatePayment(cmd.OrderID, cmd.CustomerID, cmd.Amount, operationKey)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to create payment")
	}

	// Risk scoring gates the gateway call
	riskScore := uc.riskEvaluator.Score(cmd.Amount, cmd.CustomerID, cmd.OrderID)
	payment.RiskScore = riskScore
	span.SetAttributes(
		attribute.Int("risk_score", riskScore),
		attribute.String("risk_level", domain.RiskLevel(riskScore)),
	)

	if uc.riskEvaluator.ShouldBlock(riskScore) {
		status = "fraud_detected"
		reason := fmt.Sprintf("transaction blocked due to high fraud risk (score: %d)", riskScore)
		if err := payment.BlockForFraud(riskScore, reason); err != nil {
			return errors.Wrap(err, "failed to block payment")
		}
		return uc.commitAndPublish(ctx, cmd.CorrelationID, payment, operationKey)
	}

	// Authorize with a bounded timeout; a timeout is a declined payment
	gatewayCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	transactionID, err := uc.gateway.Authorize(gatewayCtx, cmd.OrderID, cmd.Amount)
	if err != nil {
		status = "declined"
		reason := fmt.Sprintf("payment declined by gateway: %v", err)
		if failErr := payment.Fail(reason); failErr != nil {
			return errors.Wrap(failErr, "failed to fail payment")
		}
		return uc.commitAndPublish(ctx, cmd.CorrelationID, payment, operationKey)
	}

	if err := payment.Complete(transactionID); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to complete payment")
	}

	status = "success"
	return uc.commitAndPublish(ctx, cmd.CorrelationID, payment, operationKey)
}

// commitAndPublish saves the payment, marks the guard after the side effect
// commits, and publishes the recorded outcome
func (uc *ProcessPayment) commitAndPublish(ctx context.Context, correlationID models.ID, payment *domain.Payment, operationKey string) error {
	if err := uc.paymentRepository.Save(ctx, payment); err != nil {
		return errors.Wrap(err, "failed to save payment")
	}

	if err := uc.idempotencyGuard.MarkApplied(ctx, operationKey, idempotencyTTL); err != nil {
		// The payment row is already committed; the keyed upsert makes a
		// re-processing run converge on the same outcome
		return errors.Wrap(err, "failed to mark operation applied")
	}

	return uc.publishOutcomeFor(ctx, correlationID, payment)
}

// republishOutcome re-emits the recorded outcome for a duplicate trigger
func (uc *ProcessPayment) republishOutcome(ctx context.Context, cmd *ProcessPaymentCommand) error {
	payment, err := uc.paymentRepository.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to find payment")
	}

	if payment == nil {
		// Guard says applied but no row exists; treat as drift and let the
		// transport redeliver after the guard entry expires
		return errors.New("payment record not found for applied operation")
	}

	return uc.publishOutcomeFor(ctx, cmd.CorrelationID, payment)
}

func (uc *ProcessPayment) publishOutcomeFor(ctx context.Context, correlationID models.ID, payment *domain.Payment) error {
	var event *events.Event

	switch payment.Status {
	case domain.PaymentStatusCompleted:
		event = events.NewEvent(
			events.PaymentProcessedEvent,
			events.PaymentServiceSource,
			events.PaymentEventsChannel,
			events.PaymentProcessedData{
				OrderID:   payment.OrderID,
				PaymentID: payment.ID,
				Amount:    payment.Amount,
				RiskScore: payment.RiskScore,
			},
		)
	case domain.PaymentStatusFraudDetected:
		event = events.NewEvent(
			events.PaymentFraudDetectedEvent,
			events.PaymentServiceSource,
			events.PaymentEventsChannel,
			events.PaymentFraudDetectedData{
				OrderID:   payment.OrderID,
				Amount:    payment.Amount,
				RiskScore: payment.RiskScore,
				Reason:    payment.FailureReason,
			},
		)
	default:
		event = events.NewEvent(
			events.PaymentFailedEvent,
			events.PaymentServiceSource,
			events.PaymentEventsChannel,
			events.PaymentFailedData{
				OrderID: payment.OrderID,
				Amount:  payment.Amount,
				Reason:  payment.FailureReason,
			},
		)
	}

	event.WithCorrelationID(correlationID)

	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish payment outcome event")
	}

	return nil
}

func (uc *ProcessPayment) validateCommand(cmd *ProcessPaymentCommand) error {
	if cmd.CorrelationID == "" {
		return errors.New("correlation ID is required")
	}

	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	if !cmd.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}

	return nil
}

func operationKey(orderID models.ID) string {
	return "payment:processed:" + orderID.String()
}

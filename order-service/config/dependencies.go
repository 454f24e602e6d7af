package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/quickcart/fulfillment-system/order-service/application"
	"github.com/quickcart/fulfillment-system/order-service/handlers"
	"github.com/quickcart/fulfillment-system/order-service/infrastructure"
	sharedinfra "github.com/quickcart/fulfillment-system/shared/infrastructure"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	OrderRepository *infrastructure.PostgresOrderRepository
	EventStore      *sharedinfra.PostgresEventStore

	// Use Cases
	CreateOrder             *application.CreateOrder
	GetOrder                *application.GetOrder
	GetOrderHistory         *application.GetOrderHistory
	ProcessInventoryOutcome *application.ProcessInventoryOutcome
	ProcessPaymentOutcome   *application.ProcessPaymentOutcome
	ProcessShipmentOutcome  *application.ProcessShipmentOutcome
	CompensateOrder         *application.CompensateOrder

	// HTTP Handlers
	OrderHandlers *handlers.OrderHandlers

	// Event Handlers
	OrderEventHandlers *handlers.OrderEventHandlers

	// Infrastructure
	EventPublisher  *sharedinfra.SNSPublisherAdapter
	EventSubscriber *sharedinfra.SQSSubscriberAdapter

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry
	tel, telShutdown, err := telemetry.InitTelemetry(ctx,
		telemetry.OrderServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	deps.Telemetry = tel
	deps.TelemetryShutdown = telShutdown

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	deps.DB = db

	// Initialize AWS infrastructure
	eventPublisher, err := sharedinfra.NewSNSPublisherAdapter(config.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.EventPublisher = eventPublisher

	eventSubscriber, err := sharedinfra.NewSQSSubscriberAdapter(
		config.AWS.SQSQueueURL,
		config.AWS.SQSDeadLetterQueueURL,
		config.AWS.SQSWorkers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS subscriber: %w", err)
	}
	deps.EventSubscriber = eventSubscriber

	// Initialize repositories
	deps.OrderRepository = infrastructure.NewPostgresOrderRepository(db)
	deps.EventStore = sharedinfra.NewPostgresEventStore(db)

	// Initialize use cases
	history := application.NewSagaHistory(deps.EventStore)
	deps.CreateOrder = application.NewCreateOrder(deps.OrderRepository, history, eventPublisher)
	deps.GetOrder = application.NewGetOrder(deps.OrderRepository)
	deps.GetOrderHistory = application.NewGetOrderHistory(deps.OrderRepository, deps.EventStore)
	deps.CompensateOrder = application.NewCompensateOrder(deps.OrderRepository, history, eventPublisher)
	deps.ProcessInventoryOutcome = application.NewProcessInventoryOutcome(deps.OrderRepository, history, eventPublisher)
	deps.ProcessPaymentOutcome = application.NewProcessPaymentOutcome(deps.OrderRepository, deps.CompensateOrder)
	deps.ProcessShipmentOutcome = application.NewProcessShipmentOutcome(deps.OrderRepository, history, eventPublisher)

	// Initialize handlers
	deps.OrderHandlers = handlers.NewOrderHandlers(deps.CreateOrder, deps.GetOrder, deps.GetOrderHistory)
	deps.OrderEventHandlers = handlers.NewOrderEventHandlers(
		deps.ProcessInventoryOutcome,
		deps.ProcessPaymentOutcome,
		deps.ProcessShipmentOutcome,
		history,
	)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}

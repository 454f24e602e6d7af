package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	sharedinfra "github.com/quickcart/fulfillment-system/shared/infrastructure"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
	"github.com/quickcart/fulfillment-system/shipping-service/application"
	"github.com/quickcart/fulfillment-system/shipping-service/handlers"
	"github.com/quickcart/fulfillment-system/shipping-service/infrastructure"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	ShipmentRepository *infrastructure.PostgresShipmentRepository

	// Use Cases
	CreateShipment   *application.CreateShipment
	AdvanceShipments *application.AdvanceShipments
	GetShipment      *application.GetShipment

	// HTTP Handlers
	ShippingHandlers *handlers.ShippingHandlers

	// Event Handlers
	ShippingEventHandlers *handlers.ShippingEventHandlers

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
		telemetry.ShippingServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint))
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
	deps.ShipmentRepository = infrastructure.NewPostgresShipmentRepository(db)

	// Initialize use cases
	entropy := infrastructure.NewRandEntropySource()
	deps.CreateShipment = application.NewCreateShipment(deps.ShipmentRepository, entropy, eventPublisher)
	deps.AdvanceShipments = application.NewAdvanceShipments(deps.ShipmentRepository, eventPublisher)
	deps.GetShipment = application.NewGetShipment(deps.ShipmentRepository)

	// Initialize handlers
	deps.ShippingHandlers = handlers.NewShippingHandlers(deps.GetShipment)
	deps.ShippingEventHandlers = handlers.NewShippingEventHandlers(deps.CreateShipment)

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

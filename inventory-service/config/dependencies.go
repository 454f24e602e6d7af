package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/quickcart/fulfillment-system/inventory-service/application"
	"github.com/quickcart/fulfillment-system/inventory-service/handlers"
	"github.com/quickcart/fulfillment-system/inventory-service/infrastructure"
	sharedinfra "github.com/quickcart/fulfillment-system/shared/infrastructure"
	"github.com/quickcart/fulfillment-system/shared/telemetry"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	ProductRepository     *infrastructure.PostgresProductRepository
	ReservationRepository *infrastructure.PostgresReservationRepository
	InventoryStore        *infrastructure.PostgresInventoryStore

	// Use Cases
	ReserveStock *application.ReserveStock
	ReleaseStock *application.ReleaseStock
	CompleteSale *application.CompleteSale
	GetProduct   *application.GetProduct
	ListProducts *application.ListProducts

	// HTTP Handlers
	InventoryHandlers *handlers.InventoryHandlers

	// Event Handlers
	InventoryEventHandlers *handlers.InventoryEventHandlers

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
		telemetry.InventoryServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint))
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
	deps.ProductRepository = infrastructure.NewPostgresProductRepository(db)
	deps.ReservationRepository = infrastructure.NewPostgresReservationRepository(db)
	deps.InventoryStore = infrastructure.NewPostgresInventoryStore(db)

	// Seed the sample catalog on an empty database
	if err := infrastructure.SeedProducts(ctx, deps.ProductRepository); err != nil {
		return nil, fmt.Errorf("failed to seed products: %w", err)
	}

	// Initialize use cases
	deps.ReserveStock = application.NewReserveStock(deps.ProductRepository, deps.ReservationRepository, deps.InventoryStore, eventPublisher)
	deps.ReleaseStock = application.NewReleaseStock(deps.ProductRepository, deps.ReservationRepository, deps.InventoryStore, eventPublisher)
	deps.CompleteSale = application.NewCompleteSale(deps.ProductRepository, deps.ReservationRepository, deps.InventoryStore)
	deps.GetProduct = application.NewGetProduct(deps.ProductRepository)
	deps.ListProducts = application.NewListProducts(deps.ProductRepository)

	// Initialize handlers
	deps.InventoryHandlers = handlers.NewInventoryHandlers(deps.GetProduct, deps.ListProducts)
	deps.InventoryEventHandlers = handlers.NewInventoryEventHandlers(
		deps.ReserveStock,
		deps.ReleaseStock,
		deps.CompleteSale,
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

package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *sqlx.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository
func NewPostgresProductRepository(db *sqlx.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// postgresProduct represents product in database
type postgresProduct struct {
	ID                string     `db:"id"`
	SKU               string     `db:"sku"`
	Name              string     `db:"name"`
	Description       string     `db:"description"`
	AvailableQuantity int        `db:"available_quantity"`
	ReservedQuantity  int        `db:"reserved_quantity"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
	Version           int        `db:"version"`
}

// Save inserts a new product or updates an existing one guarded by its
// version so concurrent reservations from different orders are serialized
func (r *PostgresProductRepository) Save(ctx context.Context, product *domain.Product) error {
	return saveProduct(ctx, r.db, product)
}

// saveProduct runs against either the bare connection or an open
// transaction, so the inventory store can commit product rows together
// with their reservation record.
func saveProduct(ctx context.Context, ext sqlx.ExtContext, product *domain.Product) error {
	if product.Version.Value == 1 {
		return insertProduct(ctx, ext, product)
	}
	return updateProduct(ctx, ext, product)
}

func insertProduct(ctx context.Context, ext sqlx.ExtContext, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, sku, name, description, available_quantity, reserved_quantity,
			created_at, updated_at, version
		) VALUES (
			:id, :sku, :name, :description, :available_quantity, :reserved_quantity,
			:created_at, :updated_at, :version
		)`

	_, err := sqlx.NamedExecContext(ctx, ext, query, toPostgresProduct(product))
	if err != nil {
		return errors.Wrap(err, "failed to insert product")
	}

	return nil
}

func updateProduct(ctx context.Context, ext sqlx.ExtContext, product *domain.Product) error {
	query := `
		UPDATE products
		SET available_quantity = :available_quantity,
			reserved_quantity = :reserved_quantity,
			updated_at = :updated_at,
			version = :version
		WHERE id = :id AND version = :old_version`

	result, err := sqlx.NamedExecContext(ctx, ext, query, map[string]interface{}{
		"id":                 product.ID.String(),
		"available_quantity": product.AvailableQuantity,
		"reserved_quantity":  product.ReservedQuantity,
		"updated_at":         product.Timestamps.UpdatedAt,
		"version":            product.Version.Value,
		"old_version":        product.Version.Value - 1, // Optimistic locking
	})
	if err != nil {
		return errors.Wrap(err, "failed to update product")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}

	if rows == 0 {
		return errors.Errorf("stale product version %d for product %s", product.Version.Value-1, product.ID)
	}

	return nil
}

// FindByID finds a product by ID
func (r *PostgresProductRepository) FindByID(ctx context.Context, id models.ID) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, description, available_quantity, reserved_quantity,
			   created_at, updated_at, deleted_at, version
		FROM products
		WHERE id = $1 AND deleted_at IS NULL`

	var pgProduct postgresProduct
	err := r.db.GetContext(ctx, &pgProduct, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Product not found
		}
		return nil, errors.Wrap(err, "failed to find product")
	}

	return r.toDomain(&pgProduct), nil
}

// FindBySKU finds a product by SKU
func (r *PostgresProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, description, available_quantity, reserved_quantity,
			   created_at, updated_at, deleted_at, version
		FROM products
		WHERE sku = $1 AND deleted_at IS NULL`

	var pgProduct postgresProduct
	err := r.db.GetContext(ctx, &pgProduct, query, sku)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find product by sku")
	}

	return r.toDomain(&pgProduct), nil
}

// FindAll finds all products
func (r *PostgresProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, sku, name, description, available_quantity, reserved_quantity,
			   created_at, updated_at, deleted_at, version
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY sku ASC`

	var pgProducts []postgresProduct
	err := r.db.SelectContext(ctx, &pgProducts, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*domain.Product, len(pgProducts))
	for i, pgProduct := range pgProducts {
		products[i] = r.toDomain(&pgProduct)
	}

	return products, nil
}

func toPostgresProduct(product *domain.Product) *postgresProduct {
	return &postgresProduct{
		ID:                product.ID.String(),
		SKU:               product.SKU,
		Name:              product.Name,
		Description:       product.Description,
		AvailableQuantity: product.AvailableQuantity,
		ReservedQuantity:  product.ReservedQuantity,
		CreatedAt:         product.Timestamps.CreatedAt,
		UpdatedAt:         product.Timestamps.UpdatedAt,
		DeletedAt:         product.Timestamps.DeletedAt,
		Version:           product.Version.Value,
	}
}

func (r *PostgresProductRepository) toDomain(pgProduct *postgresProduct) *domain.Product {
	return &domain.Product{
		ID:                models.ID(pgProduct.ID),
		SKU:               pgProduct.SKU,
		Name:              pgProduct.Name,
		Description:       pgProduct.Description,
		AvailableQuantity: pgProduct.AvailableQuantity,
		ReservedQuantity:  pgProduct.ReservedQuantity,
		Timestamps: models.Timestamps{
			CreatedAt: pgProduct.CreatedAt,
			UpdatedAt: pgProduct.UpdatedAt,
			DeletedAt: pgProduct.DeletedAt,
		},
		Version: models.Version{Value: pgProduct.Version},
	}
}

package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product aggregate root. Stock is partitioned into available and reserved;
// reserve and release move quantity between the two partitions and never
// change the total supply.
type Product struct {
	ID                models.ID `json:"id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	AvailableQuantity int       `json:"available_quantity"`
	ReservedQuantity  int       `json:"reserved_quantity"`
	Timestamps        models.Timestamps
	Version           models.Version
}

// NewProduct creates a product with the full quantity available
func NewProduct(sku, name, description string, quantity int) (*Product, error) {
	if sku == "" {
		return nil, errors.New("sku is required")
	}

	if quantity < 0 {
		return nil, errors.New("quantity cannot be negative")
	}

	return &Product{
		ID:                models.GenerateUUID(),
		SKU:               sku,
		Name:              name,
		Description:       description,
		AvailableQuantity: quantity,
		ReservedQuantity:  0,
		Timestamps:        models.NewTimestamps(),
		Version:           models.NewVersion(),
	}, nil
}

// TotalQuantity returns available + reserved
func (p *Product) TotalQuantity() int {
	return p.AvailableQuantity + p.ReservedQuantity
}

// HasEnoughStock checks if the requested quantity can be reserved
func (p *Product) HasEnoughStock(quantity int) bool {
	return p.AvailableQuantity >= quantity
}

// Reserve moves quantity from available to reserved
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return errors.New("reserve quantity must be positive")
	}

	if !p.HasEnoughStock(quantity) {
		return errors.Wrapf(ErrInsufficientStock,
			"product %s: requested %d, available %d", p.SKU, quantity, p.AvailableQuantity)
	}

	p.AvailableQuantity -= quantity
	p.ReservedQuantity += quantity
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()

	return nil
}

// Release moves quantity back from reserved to available.
// Used as compensation when payment fails after a reservation.
func (p *Product) Release(quantity int) error {
	if quantity <= 0 {
		return errors.New("release quantity must be positive")
	}

	if quantity > p.ReservedQuantity {
		return errors.Errorf("product %s: cannot release %d, only %d reserved",
			p.SKU, quantity, p.ReservedQuantity)
	}

	p.ReservedQuantity -= quantity
	p.AvailableQuantity += quantity
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()

	return nil
}

// CompleteSale removes quantity from reserved once the order has shipped
func (p *Product) CompleteSale(quantity int) error {
	if quantity <= 0 {
		return errors.New("sale quantity must be positive")
	}

	if quantity > p.ReservedQuantity {
		return errors.Errorf("product %s: cannot complete sale of %d, only %d reserved",
			p.SKU, quantity, p.ReservedQuantity)
	}

	p.ReservedQuantity -= quantity
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()

	return nil
}

// ProductRepository interface. Save must reject writes against a stale
// version so concurrent reservations are never silently lost.
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id models.ID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}

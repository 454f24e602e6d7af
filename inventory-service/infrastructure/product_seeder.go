package infrastructure

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
)

type seedProduct struct {
	sku         string
	name        string
	description string
	quantity    int
}

var sampleCatalog = []seedProduct{
	{"LAPTOP-001", "Dell XPS 13 Laptop", "13-inch laptop with Intel Core i7 processor", 50},
	{"PHONE-001", "iPhone 15 Pro", "Latest iPhone with A17 Pro chip", 100},
	{"TABLET-001", "iPad Air", "10.9-inch iPad with M1 chip", 75},
	{"WATCH-001", "Apple Watch Series 9", "Smartwatch with health tracking", 200},
	{"HEADPHONE-001", "Sony WH-1000XM5", "Noise-cancelling wireless headphones", 150},
	{"MOUSE-001", "Logitech MX Master 3", "Wireless ergonomic mouse", 300},
	{"KEYBOARD-001", "Keychron K2 Mechanical Keyboard", "Wireless mechanical keyboard", 120},
	{"MONITOR-001", "LG 27-inch 4K Monitor", "4K UHD display with HDR support", 30},
	{"CAMERA-001", "Canon EOS R6", "Mirrorless camera with 20MP sensor", 25},
	{"SPEAKER-001", "Sonos One SL", "Wireless smart speaker", 80},
}

// SeedProducts loads the sample catalog on first startup. A non-empty
// products table means the environment is already provisioned and the
// seed is skipped entirely.
func SeedProducts(ctx context.Context, repository domain.ProductRepository) error {
	existing, err := repository.FindAll(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check existing products")
	}

	if len(existing) > 0 {
		log.Printf("inventory: products table already contains %d products, skipping seed", len(existing))
		return nil
	}

	for _, seed := range sampleCatalog {
		product, err := domain.NewProduct(seed.sku, seed.name, seed.description, seed.quantity)
		if err != nil {
			return errors.Wrapf(err, "invalid seed product %s", seed.sku)
		}

		if err := repository.Save(ctx, product); err != nil {
			return errors.Wrapf(err, "failed to seed product %s", seed.sku)
		}
	}

	log.Printf("inventory: seeded %d sample products", len(sampleCatalog))
	return nil
}

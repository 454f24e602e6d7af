package infrastructure

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/inventory-service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSeedProducts(t *testing.T) {
	t.Run("seeds the full catalog into an empty database", func(t *testing.T) {
		mockRepo := mocks.NewMockProductRepository(t)

		mockRepo.EXPECT().FindAll(mock.Anything).Return(nil, nil).Once()

		var seeded []*domain.Product
		mockRepo.EXPECT().Save(mock.Anything, mock.Anything).
			Run(func(ctx context.Context, product *domain.Product) {
				seeded = append(seeded, product)
			}).Return(nil).Times(len(sampleCatalog))

		err := SeedProducts(context.Background(), mockRepo)

		assert.NoError(t, err)
		assert.Len(t, seeded, len(sampleCatalog))
		assert.Equal(t, "LAPTOP-001", seeded[0].SKU)
		assert.Equal(t, 50, seeded[0].AvailableQuantity)
		assert.Equal(t, 0, seeded[0].ReservedQuantity)
	})

	t.Run("skips seeding when products already exist", func(t *testing.T) {
		existing, err := domain.NewProduct("LAPTOP-001", "Dell XPS 13 Laptop", "", 50)
		assert.NoError(t, err)

		mockRepo := mocks.NewMockProductRepository(t)
		mockRepo.EXPECT().FindAll(mock.Anything).
			Return([]*domain.Product{existing}, nil).Once()

		assert.NoError(t, SeedProducts(context.Background(), mockRepo))
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		mockRepo := mocks.NewMockProductRepository(t)
		mockRepo.EXPECT().FindAll(mock.Anything).
			Return(nil, errors.New("database error")).Once()

		err := SeedProducts(context.Background(), mockRepo)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check existing products")
	})
}

package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/inventory-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// GetProductQuery represents the query to get a product
type GetProductQuery struct {
	ProductID string `json:"product_id"`
}

// ProductResponse represents a product read model
type ProductResponse struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	AvailableQuantity int    `json:"available_quantity"`
	ReservedQuantity  int    `json:"reserved_quantity"`
}

// GetProduct use case retrieves a single product
type GetProduct struct {
	productRepository domain.ProductRepository
}

// NewGetProduct creates a new GetProduct use case
func NewGetProduct(productRepository domain.ProductRepository) *GetProduct {
	return &GetProduct{productRepository: productRepository}
}

// Execute retrieves a product by ID
func (uc *GetProduct) Execute(ctx context.Context, query *GetProductQuery) (*ProductResponse, error) {
	productID, err := models.NewID(query.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid product ID")
	}

	product, err := uc.productRepository.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}

	if product == nil {
		return nil, errors.New("product not found")
	}

	return toProductResponse(product), nil
}

// ListProducts use case retrieves all products
type ListProducts struct {
	productRepository domain.ProductRepository
}

// NewListProducts creates a new ListProducts use case
func NewListProducts(productRepository domain.ProductRepository) *ListProducts {
	return &ListProducts{productRepository: productRepository}
}

// Execute retrieves all products
func (uc *ListProducts) Execute(ctx context.Context) ([]*ProductResponse, error) {
	products, err := uc.productRepository.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	responses := make([]*ProductResponse, len(products))
	for i, product := range products {
		responses[i] = toProductResponse(product)
	}

	return responses, nil
}

func toProductResponse(product *domain.Product) *ProductResponse {
	return &ProductResponse{
		ProductID:         product.ID.String(),
		SKU:               product.SKU,
		Name:              product.Name,
		Description:       product.Description,
		AvailableQuantity: product.AvailableQuantity,
		ReservedQuantity:  product.ReservedQuantity,
	}
}

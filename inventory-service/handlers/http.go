package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quickcart/fulfillment-system/inventory-service/application"
)

// InventoryHandlers contains inventory HTTP handlers
type InventoryHandlers struct {
	getProduct   *application.GetProduct
	listProducts *application.ListProducts
}

// NewInventoryHandlers creates new inventory handlers
func NewInventoryHandlers(
	getProduct *application.GetProduct,
	listProducts *application.ListProducts,
) *InventoryHandlers {
	return &InventoryHandlers{
		getProduct:   getProduct,
		listProducts: listProducts,
	}
}

// GetProduct handles product retrieval requests
func (h *InventoryHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		http.Error(w, "Product ID is required", http.StatusBadRequest)
		return
	}

	query := &application.GetProductQuery{
		ProductID: productID,
	}

	response, err := h.getProduct.Execute(r.Context(), query)
	if err != nil {
		if err.Error() == "product not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListProducts handles product listing requests
func (h *InventoryHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	response, err := h.listProducts.Execute(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quickcart/fulfillment-system/shipping-service/application"
)

// ShippingHandlers contains shipping HTTP handlers
type ShippingHandlers struct {
	getShipment *application.GetShipment
}

// NewShippingHandlers creates new shipping handlers
func NewShippingHandlers(getShipment *application.GetShipment) *ShippingHandlers {
	return &ShippingHandlers{getShipment: getShipment}
}

// GetShipment handles shipment retrieval requests
func (h *ShippingHandlers) GetShipment(w http.ResponseWriter, r *http.Request) {
	shipmentID := chi.URLParam(r, "id")
	if shipmentID == "" {
		http.Error(w, "Shipment ID is required", http.StatusBadRequest)
		return
	}

	h.respond(w, r, &application.GetShipmentQuery{ShipmentID: shipmentID})
}

// GetShipmentByOrder handles shipment retrieval by order id
func (h *ShippingHandlers) GetShipmentByOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	h.respond(w, r, &application.GetShipmentQuery{OrderID: orderID})
}

func (h *ShippingHandlers) respond(w http.ResponseWriter, r *http.Request, query *application.GetShipmentQuery) {
	response, err := h.getShipment.Execute(r.Context(), query)
	if err != nil {
		if err.Error() == "shipment not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterRoutes registers shipping routes
func (h *ShippingHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/shipments", func(r chi.Router) {
		r.Get("/{id}", h.GetShipment)
		r.Get("/order/{orderID}", h.GetShipmentByOrder)
	})
}

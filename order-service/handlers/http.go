package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quickcart/fulfillment-system/order-service/application"
)

// OrderHandlers contains order HTTP handlers. This is the only synchronous
// entry point of the system: it accepts order-creation requests and serves
// order snapshots; everything after creation flows through events.
type OrderHandlers struct {
	createOrder     *application.CreateOrder
	getOrder        *application.GetOrder
	getOrderHistory *application.GetOrderHistory
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(
	createOrder *application.CreateOrder,
	getOrder *application.GetOrder,
	getOrderHistory *application.GetOrderHistory,
) *OrderHandlers {
	return &OrderHandlers{
		createOrder:     createOrder,
		getOrder:        getOrder,
		getOrderHistory: getOrderHistory,
	}
}

// CreateOrder handles order creation requests
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.createOrder.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// GetOrder handles order retrieval requests
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	h.respond(w, r, &application.GetOrderQuery{OrderID: orderID})
}

// GetOrderByCorrelation handles order retrieval by correlation id
func (h *OrderHandlers) GetOrderByCorrelation(w http.ResponseWriter, r *http.Request) {
	correlationID := chi.URLParam(r, "correlationID")
	if correlationID == "" {
		http.Error(w, "Correlation ID is required", http.StatusBadRequest)
		return
	}

	h.respond(w, r, &application.GetOrderQuery{CorrelationID: correlationID})
}

// GetOrderHistory handles order history retrieval requests
func (h *OrderHandlers) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	history, err := h.getOrderHistory.Execute(r.Context(), orderID)
	if err != nil {
		if err.Error() == "order not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

func (h *OrderHandlers) respond(w http.ResponseWriter, r *http.Request, query *application.GetOrderQuery) {
	response, err := h.getOrder.Execute(r.Context(), query)
	if err != nil {
		if err.Error() == "order not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterRoutes registers order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/history", h.GetOrderHistory)
		r.Get("/correlation/{correlationID}", h.GetOrderByCorrelation)
	})
}

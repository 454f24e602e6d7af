package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quickcart/fulfillment-system/payment-service/application"
)

// PaymentHandlers contains payment HTTP handlers
type PaymentHandlers struct {
	getPayment *application.GetPayment
}

// NewPaymentHandlers creates new payment handlers
func NewPaymentHandlers(getPayment *application.GetPayment) *PaymentHandlers {
	return &PaymentHandlers{getPayment: getPayment}
}

// GetPayment handles payment retrieval requests
func (h *PaymentHandlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		http.Error(w, "Payment ID is required", http.StatusBadRequest)
		return
	}

	query := &application.GetPaymentQuery{
		PaymentID: paymentID,
	}

	h.respond(w, r, query)
}

// GetPaymentByOrder handles payment retrieval by order id
func (h *PaymentHandlers) GetPaymentByOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	query := &application.GetPaymentQuery{
		OrderID: orderID,
	}

	h.respond(w, r, query)
}

func (h *PaymentHandlers) respond(w http.ResponseWriter, r *http.Request, query *application.GetPaymentQuery) {
	response, err := h.getPayment.Execute(r.Context(), query)
	if err != nil {
		if err.Error() == "payment not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Get("/{id}", h.GetPayment)
		r.Get("/order/{orderID}", h.GetPaymentByOrder)
	})
}

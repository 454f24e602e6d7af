package domain

import (
	"context"

	"github.com/quickcart/fulfillment-system/shared/models"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "reserved"
	ReservationStatusReleased  ReservationStatus = "released"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// ReservationLine is one reserved product quantity
type ReservationLine struct {
	ProductID models.ID    `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// Reservation records the applied reservation for one order. At most one
// reservation exists per order id, which is what makes the reserve operation
// safe to re-run on a redelivered order.created event.
type Reservation struct {
	ID         models.ID         `json:"id"`
	OrderID    models.ID         `json:"order_id"`
	Status     ReservationStatus `json:"status"`
	Lines      []ReservationLine `json:"lines"`
	Timestamps models.Timestamps
}

// NewReservation creates a reservation in reserved status
func NewReservation(orderID models.ID, lines []ReservationLine) *Reservation {
	return &Reservation{
		ID:         models.GenerateUUID(),
		OrderID:    orderID,
		Status:     ReservationStatusReserved,
		Lines:      lines,
		Timestamps: models.NewTimestamps(),
	}
}

// MarkReleased marks the reservation as compensated
func (r *Reservation) MarkReleased() {
	r.Status = ReservationStatusReleased
	r.Timestamps = r.Timestamps.Update()
}

// MarkCompleted marks the reservation as a completed sale
func (r *Reservation) MarkCompleted() {
	r.Status = ReservationStatusCompleted
	r.Timestamps = r.Timestamps.Update()
}

// ReservationRepository interface. Save is a keyed upsert on order id so a
// redelivered reservation never produces a second row.
type ReservationRepository interface {
	Save(ctx context.Context, reservation *Reservation) error
	FindByOrderID(ctx context.Context, orderID models.ID) (*Reservation, error)
}

// InventoryStore commits a reservation outcome atomically: the touched
// product rows and the reservation record land together or not at all.
// The reservation row is the redelivery anchor, so it must never lag
// behind a stock mutation.
type InventoryStore interface {
	Apply(ctx context.Context, reservation *Reservation, products []*Product) error
}

package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// ShipmentStatus represents the status of a shipment
type ShipmentStatus string

const (
	ShipmentStatusCreated        ShipmentStatus = "created"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"
)

// IsTerminal reports whether the shipment reached a final status
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// next returns the following status on the delivery path
func (s ShipmentStatus) next() (ShipmentStatus, bool) {
	switch s {
	case ShipmentStatusCreated:
		return ShipmentStatusInTransit, true
	case ShipmentStatusInTransit:
		return ShipmentStatusOutForDelivery, true
	case ShipmentStatusOutForDelivery:
		return ShipmentStatusDelivered, true
	default:
		return s, false
	}
}

var (
	ErrShipmentNotFound = errors.New("shipment not found")
)

// Shipment aggregate root. Status only moves forward along the delivery
// path; carrier updates arriving out of order must never regress it.
// CorrelationID is kept on the row so updates emitted by the carrier
// simulation stay inside the originating saga.
type Shipment struct {
	ID                models.ID
	OrderID           models.ID
	CorrelationID     models.ID
	TrackingNumber    string
	Carrier           string
	Status            ShipmentStatus
	EstimatedDelivery *time.Time
	ActualDelivery    *time.Time
	Timestamps        models.Timestamps
	Version           models.Version
}

// CreateShipment factory method
func CreateShipment(orderID, correlationID models.ID, trackingNumber, carrier string, estimatedDelivery time.Time) (*Shipment, error) {
	if orderID == "" {
		return nil, errors.New("order ID is required")
	}

	if trackingNumber == "" {
		return nil, errors.New("tracking number is required")
	}

	if carrier == "" {
		return nil, errors.New("carrier is required")
	}

	return &Shipment{
		ID:                models.GenerateUUID(),
		OrderID:           orderID,
		CorrelationID:     correlationID,
		TrackingNumber:    trackingNumber,
		Carrier:           carrier,
		Status:            ShipmentStatusCreated,
		EstimatedDelivery: &estimatedDelivery,
		Timestamps:        models.NewTimestamps(),
		Version:           models.NewVersion(),
	}, nil
}

// Advance moves the shipment one step along the delivery path. Reaching
// delivered records the actual delivery time.
func (s *Shipment) Advance() error {
	next, ok := s.Status.next()
	if !ok {
		return errors.Errorf("shipment in status %s cannot advance", s.Status)
	}

	s.Status = next
	if next == ShipmentStatusDelivered {
		now := time.Now()
		s.ActualDelivery = &now
	}
	s.Timestamps = s.Timestamps.Update()
	s.Version = s.Version.Update()

	return nil
}

// Cancel cancels a shipment before carrier pickup
func (s *Shipment) Cancel() error {
	if s.Status != ShipmentStatusCreated {
		return errors.Errorf("shipment can only be cancelled before pickup, got %s", s.Status)
	}

	s.Status = ShipmentStatusCancelled
	s.Timestamps = s.Timestamps.Update()
	s.Version = s.Version.Update()

	return nil
}

// ShipmentRepository interface
type ShipmentRepository interface {
	Save(ctx context.Context, shipment *Shipment) error
	FindByID(ctx context.Context, id models.ID) (*Shipment, error)
	FindByOrderID(ctx context.Context, orderID models.ID) (*Shipment, error)
	FindActive(ctx context.Context) ([]*Shipment, error)
}

// EntropySource supplies the simulated carrier's randomness. Injecting it
// keeps tracking numbers, carrier picks and delivery progress reproducible
// in tests.
type EntropySource interface {
	Intn(n int) int
}

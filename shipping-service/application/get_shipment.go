package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/quickcart/fulfillment-system/shipping-service/domain"
)

// GetShipmentQuery represents the query to get a shipment
type GetShipmentQuery struct {
	ShipmentID string
	OrderID    string
}

// ShipmentResponse represents the shipment response
type ShipmentResponse struct {
	ID                models.ID  `json:"id"`
	OrderID           models.ID  `json:"order_id"`
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// GetShipment use case
type GetShipment struct {
	shipmentRepository domain.ShipmentRepository
}

// NewGetShipment creates a new GetShipment use case
func NewGetShipment(shipmentRepository domain.ShipmentRepository) *GetShipment {
	return &GetShipment{shipmentRepository: shipmentRepository}
}

// Execute retrieves a shipment by its id, or by order id when no shipment id
// is given
func (uc *GetShipment) Execute(ctx context.Context, query *GetShipmentQuery) (*ShipmentResponse, error) {
	var shipment *domain.Shipment
	var err error

	switch {
	case query.ShipmentID != "":
		shipment, err = uc.shipmentRepository.FindByID(ctx, models.ID(query.ShipmentID))
	case query.OrderID != "":
		shipment, err = uc.shipmentRepository.FindByOrderID(ctx, models.ID(query.OrderID))
	default:
		return nil, errors.New("shipment ID or order ID is required")
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to find shipment")
	}

	if shipment == nil {
		return nil, errors.New("shipment not found")
	}

	return &ShipmentResponse{
		ID:                shipment.ID,
		OrderID:           shipment.OrderID,
		TrackingNumber:    shipment.TrackingNumber,
		Carrier:           shipment.Carrier,
		Status:            string(shipment.Status),
		EstimatedDelivery: shipment.EstimatedDelivery,
		ActualDelivery:    shipment.ActualDelivery,
		CreatedAt:         shipment.Timestamps.CreatedAt,
		UpdatedAt:         shipment.Timestamps.UpdatedAt,
	}, nil
}

package domain

import (
	"testing"
	"time"

	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
)

func testShipment(t *testing.T) *Shipment {
	t.Helper()
	shipment, err := CreateShipment(
		models.GenerateUUID(),
		models.GenerateUUID(),
		"TRK-1724744000000-ABCD1234",
		"UPS",
		time.Now().AddDate(0, 0, 4),
	)
	assert.NoError(t, err)
	return shipment
}

func TestCreateShipment(t *testing.T) {
	tests := []struct {
		name           string
		orderID        models.ID
		trackingNumber string
		carrier        string
		expectedError  string
	}{
		{
			name:           "valid shipment",
			orderID:        models.GenerateUUID(),
			trackingNumber: "TRK-1724744000000-ABCD1234",
			carrier:        "FedEx",
		},
		{
			name:           "missing order ID",
			trackingNumber: "TRK-1724744000000-ABCD1234",
			carrier:        "FedEx",
			expectedError:  "order ID is required",
		},
		{
			name:          "missing tracking number",
			orderID:       models.GenerateUUID(),
			carrier:       "FedEx",
			expectedError: "tracking number is required",
		},
		{
			name:           "missing carrier",
			orderID:        models.GenerateUUID(),
			trackingNumber: "TRK-1724744000000-ABCD1234",
			expectedError:  "carrier is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipment, err := CreateShipment(tt.orderID, models.GenerateUUID(), tt.trackingNumber, tt.carrier, time.Now().AddDate(0, 0, 3))

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, ShipmentStatusCreated, shipment.Status)
			assert.NotNil(t, shipment.EstimatedDelivery)
		})
	}
}

func TestShipment_AdvanceWalksTheDeliveryPath(t *testing.T) {
	shipment := testShipment(t)

	path := []ShipmentStatus{
		ShipmentStatusInTransit,
		ShipmentStatusOutForDelivery,
		ShipmentStatusDelivered,
	}

	for _, expected := range path {
		assert.Nil(t, shipment.ActualDelivery)
		assert.NoError(t, shipment.Advance())
		assert.Equal(t, expected, shipment.Status)
	}

	// Reaching delivered stamps the actual delivery time
	assert.NotNil(t, shipment.ActualDelivery)
	assert.WithinDuration(t, time.Now(), *shipment.ActualDelivery, time.Minute)

	// Delivered is terminal; the path never wraps or regresses
	assert.True(t, shipment.Status.IsTerminal())
	assert.Error(t, shipment.Advance())
	assert.Equal(t, ShipmentStatusDelivered, shipment.Status)
}

func TestShipment_Cancel(t *testing.T) {
	t.Run("cancel before pickup", func(t *testing.T) {
		shipment := testShipment(t)
		assert.NoError(t, shipment.Cancel())
		assert.Equal(t, ShipmentStatusCancelled, shipment.Status)
		assert.True(t, shipment.Status.IsTerminal())
	})

	t.Run("cannot cancel once in transit", func(t *testing.T) {
		shipment := testShipment(t)
		assert.NoError(t, shipment.Advance())
		assert.Error(t, shipment.Cancel())
		assert.Equal(t, ShipmentStatusInTransit, shipment.Status)
	})

	t.Run("cannot advance a cancelled shipment", func(t *testing.T) {
		shipment := testShipment(t)
		assert.NoError(t, shipment.Cancel())
		assert.Error(t, shipment.Advance())
		assert.Equal(t, ShipmentStatusCancelled, shipment.Status)
	})
}

func TestShipmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, ShipmentStatusCreated.IsTerminal())
	assert.False(t, ShipmentStatusInTransit.IsTerminal())
	assert.False(t, ShipmentStatusOutForDelivery.IsTerminal())
	assert.True(t, ShipmentStatusDelivered.IsTerminal())
	assert.True(t, ShipmentStatusCancelled.IsTerminal())
}

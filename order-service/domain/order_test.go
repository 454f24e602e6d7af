package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
)

func validItems() []OrderItem {
	return []OrderItem{
		{ProductID: models.GenerateUUID(), Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
		{ProductID: models.GenerateUUID(), Quantity: 1, UnitPrice: models.NewMoney(9900, "USD")},
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		customerID    models.ID
		items         []OrderItem
		expectedError string
	}{
		{
			name:       "valid order",
			customerID: models.GenerateUUID(),
			items:      validItems(),
		},
		{
			name:          "missing customer ID",
			customerID:    "",
			items:         validItems(),
			expectedError: "customer ID is required",
		},
		{
			name:          "no items",
			customerID:    models.GenerateUUID(),
			items:         []OrderItem{},
			expectedError: "order must have at least one item",
		},
		{
			name:       "zero quantity",
			customerID: models.GenerateUUID(),
			items: []OrderItem{
				{ProductID: models.GenerateUUID(), Quantity: 0, UnitPrice: models.NewMoney(2500, "USD")},
			},
			expectedError: "item quantity must be positive",
		},
		{
			name:       "non-positive unit price",
			customerID: models.GenerateUUID(),
			items: []OrderItem{
				{ProductID: models.GenerateUUID(), Quantity: 1, UnitPrice: models.NewMoney(0, "USD")},
			},
			expectedError: "item unit price must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := CreateOrder(tt.customerID, tt.items)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, OrderStatusPending, order.Status)
			assert.NotEmpty(t, order.ID)
			assert.NotEmpty(t, order.CorrelationID)
			assert.NotEqual(t, order.ID, order.CorrelationID)
		})
	}
}

func TestCreateOrder_TotalsLineItems(t *testing.T) {
	order, err := CreateOrder(models.GenerateUUID(), []OrderItem{
		{ProductID: models.GenerateUUID(), Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
		{ProductID: models.GenerateUUID(), Quantity: 3, UnitPrice: models.NewMoney(1000, "USD")},
	})

	assert.NoError(t, err)
	assert.Equal(t, models.NewMoney(8000, "USD"), order.Total)
}

// orderInState builds an order and drives it to the requested status through
// the real transitions, so tests never construct impossible states by hand.
func orderInState(t *testing.T, status OrderStatus) *Order {
	t.Helper()

	order, err := CreateOrder(models.GenerateUUID(), validItems())
	assert.NoError(t, err)

	switch status {
	case OrderStatusPending:
	case OrderStatusInventoryReserved:
		assert.NoError(t, order.MarkInventoryReserved())
	case OrderStatusPaymentProcessed:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.MarkPaymentProcessed())
	case OrderStatusShipped:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.MarkPaymentProcessed())
		assert.NoError(t, order.MarkShipped())
	case OrderStatusCompensating:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.BeginCompensation("payment declined"))
	case OrderStatusCompleted:
		assert.NoError(t, order.MarkInventoryReserved())
		assert.NoError(t, order.MarkPaymentProcessed())
		assert.NoError(t, order.MarkShipped())
		assert.NoError(t, order.Complete())
	case OrderStatusFailed:
		assert.NoError(t, order.MarkInventoryFailed("insufficient stock"))
	}

	assert.Equal(t, status, order.Status)
	return order
}

func TestOrder_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       OrderStatus
		apply      func(*Order) error
		expectedTo OrderStatus
		expectErr  bool
	}{
		{
			name:       "pending accepts inventory reserved",
			from:       OrderStatusPending,
			apply:      (*Order).MarkInventoryReserved,
			expectedTo: OrderStatusInventoryReserved,
		},
		{
			name:       "pending accepts inventory failed",
			from:       OrderStatusPending,
			apply:      func(o *Order) error { return o.MarkInventoryFailed("insufficient stock") },
			expectedTo: OrderStatusFailed,
		},
		{
			name:       "inventory reserved accepts inventory failed",
			from:       OrderStatusInventoryReserved,
			apply:      func(o *Order) error { return o.MarkInventoryFailed("insufficient stock") },
			expectedTo: OrderStatusFailed,
		},
		{
			name:       "inventory reserved accepts payment processed",
			from:       OrderStatusInventoryReserved,
			apply:      (*Order).MarkPaymentProcessed,
			expectedTo: OrderStatusPaymentProcessed,
		},
		{
			name:       "inventory reserved accepts payment failure",
			from:       OrderStatusInventoryReserved,
			apply:      func(o *Order) error { return o.BeginCompensation("payment declined") },
			expectedTo: OrderStatusCompensating,
		},
		{
			name:       "compensating closes as failed",
			from:       OrderStatusCompensating,
			apply:      (*Order).MarkFailed,
			expectedTo: OrderStatusFailed,
		},
		{
			name:       "payment processed accepts shipment created",
			from:       OrderStatusPaymentProcessed,
			apply:      (*Order).MarkShipped,
			expectedTo: OrderStatusShipped,
		},
		{
			name:       "shipped accepts delivery",
			from:       OrderStatusShipped,
			apply:      (*Order).Complete,
			expectedTo: OrderStatusCompleted,
		},
		{
			name:      "pending rejects payment processed",
			from:      OrderStatusPending,
			apply:     (*Order).MarkPaymentProcessed,
			expectErr: true,
		},
		{
			name:      "pending rejects shipment created",
			from:      OrderStatusPending,
			apply:     (*Order).MarkShipped,
			expectErr: true,
		},
		{
			name:      "payment processed rejects compensation",
			from:      OrderStatusPaymentProcessed,
			apply:     func(o *Order) error { return o.BeginCompensation("payment declined") },
			expectErr: true,
		},
		{
			name:      "shipped rejects redelivered payment processed",
			from:      OrderStatusShipped,
			apply:     (*Order).MarkPaymentProcessed,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := orderInState(t, tt.from)

			err := tt.apply(order)

			if tt.expectErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTransition))
				assert.Equal(t, tt.from, order.Status)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTo, order.Status)
		})
	}
}

func TestOrder_TerminalStatesRejectEverything(t *testing.T) {
	transitions := map[string]func(*Order) error{
		"inventory reserved": (*Order).MarkInventoryReserved,
		"inventory failed":   func(o *Order) error { return o.MarkInventoryFailed("late failure") },
		"payment processed":  (*Order).MarkPaymentProcessed,
		"begin compensation": func(o *Order) error { return o.BeginCompensation("late failure") },
		"mark failed":        (*Order).MarkFailed,
		"shipped":            (*Order).MarkShipped,
		"complete":           (*Order).Complete,
	}

	for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusFailed} {
		assert.True(t, terminal.IsTerminal())

		for name, apply := range transitions {
			t.Run(string(terminal)+" rejects "+name, func(t *testing.T) {
				order := orderInState(t, terminal)

				err := apply(order)

				assert.True(t, errors.Is(err, ErrInvalidTransition))
				assert.Equal(t, terminal, order.Status)
			})
		}
	}
}

func TestOrder_TransitionBumpsVersion(t *testing.T) {
	order := orderInState(t, OrderStatusPending)
	before := order.Version.Value

	assert.NoError(t, order.MarkInventoryReserved())
	assert.Equal(t, before+1, order.Version.Value)
}

package events

import (
	"encoding/json"
	"testing"

	"github.com/quickcart/fulfillment-system/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestNewEvent_MintsCorrelationID(t *testing.T) {
	event := NewEvent(OrderCreatedEvent, OrderServiceSource, OrderEventsChannel, OrderCreatedData{
		OrderID: models.GenerateUUID(),
	})

	assert.NotEmpty(t, event.ID)
	assert.NotEmpty(t, event.CorrelationID)
	assert.NotEqual(t, event.ID, event.CorrelationID)
	assert.Equal(t, OrderCreatedEvent, event.EventType)
	assert.Equal(t, OrderEventsChannel, event.Channel)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewDerivedEvent_PropagatesCorrelationID(t *testing.T) {
	trigger := NewEvent(OrderCreatedEvent, OrderServiceSource, OrderEventsChannel, OrderCreatedData{})

	derived := NewDerivedEvent(trigger, InventoryReservedEvent, InventoryServiceSource, InventoryEventsChannel, InventoryReservedData{})

	assert.Equal(t, trigger.CorrelationID, derived.CorrelationID)
	assert.NotEqual(t, trigger.ID, derived.ID)
	assert.Equal(t, InventoryReservedEvent, derived.EventType)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	correlationID := models.GenerateUUID()

	event := NewEvent(PaymentProcessedEvent, PaymentServiceSource, PaymentEventsChannel, PaymentProcessedData{}).
		WithCorrelationID(correlationID)

	assert.Equal(t, correlationID, event.CorrelationID)
}

func TestEvent_UnmarshalPayload(t *testing.T) {
	orderID := models.GenerateUUID()
	payload := InventoryReservedData{
		OrderID: orderID,
		Amount:  models.NewMoney(5000, "USD"),
	}

	t.Run("typed payload is copied directly", func(t *testing.T) {
		event := NewEvent(InventoryReservedEvent, InventoryServiceSource, InventoryEventsChannel, payload)

		var data InventoryReservedData
		assert.NoError(t, event.UnmarshalPayload(&data))
		assert.Equal(t, orderID, data.OrderID)
		assert.Equal(t, models.NewMoney(5000, "USD"), data.Amount)
	})

	t.Run("raw bytes survive a transport round trip", func(t *testing.T) {
		event := NewEvent(InventoryReservedEvent, InventoryServiceSource, InventoryEventsChannel, payload)

		wire, err := event.ToJSON()
		assert.NoError(t, err)

		received, err := FromJSON(wire)
		assert.NoError(t, err)
		assert.Equal(t, event.CorrelationID, received.CorrelationID)

		// Transport delivers Data as deserialized JSON; remarshal like the
		// subscriber adapter does before handing it to the handler
		raw, err := json.Marshal(received.Data)
		assert.NoError(t, err)
		received.Data = json.RawMessage(raw)

		var data InventoryReservedData
		assert.NoError(t, received.UnmarshalPayload(&data))
		assert.Equal(t, orderID, data.OrderID)
		assert.Equal(t, models.NewMoney(5000, "USD"), data.Amount)
	})

	t.Run("rejects a non-pointer receiver", func(t *testing.T) {
		event := NewEvent(InventoryReservedEvent, InventoryServiceSource, InventoryEventsChannel, payload)

		var data InventoryReservedData
		assert.Equal(t, ErrInvalidReceiver, event.UnmarshalPayload(data))
	})
}

func TestEvent_Clone(t *testing.T) {
	event := NewEvent(OrderCreatedEvent, OrderServiceSource, OrderEventsChannel, OrderCreatedData{}).
		WithMetadata("trace_id", "abc123")

	clone := event.Clone()

	assert.Equal(t, event.ID, clone.ID)
	assert.Equal(t, event.CorrelationID, clone.CorrelationID)

	clone.Metadata.Set("trace_id", "changed")
	value, _ := event.Metadata.Get("trace_id")
	assert.Equal(t, "abc123", value)
}

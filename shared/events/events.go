package events

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/quickcart/fulfillment-system/shared/models"
)

var (
	ErrInvalidChannel  = errors.New("invalid channel")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrInvalidReceiver = errors.New("receiver should be a pointer")
)

// Channel represents a logical event stream shared by the services.
// The transport guarantees per-correlation-id ordering inside a channel,
// never across channels.
type Channel string

const (
	OrderEventsChannel     Channel = "order-events"
	InventoryEventsChannel Channel = "inventory-events"
	PaymentEventsChannel   Channel = "payment-events"
	ShippingEventsChannel  Channel = "shipping-events"
	DeadLetterChannel      Channel = "dead-letter"
)

func (c Channel) String() string {
	return string(c)
}

// Metadata represents transport metadata attached to an event
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key string, value string) {
	if m == nil {
		m = make(Metadata)
	}
	m[key] = value
}

func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Metadata) Clone() Metadata {
	clone := Metadata{}
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event is the common envelope every event in the system carries.
// CorrelationID is minted once when the order is created and is copied
// unchanged into every derived event; downstream handlers never regenerate it.
type Event struct {
	ID            models.ID   `json:"event_id"`
	CorrelationID models.ID   `json:"correlation_id"`
	EventType     string      `json:"event_type"`
	Source        string      `json:"source"`
	Channel       Channel     `json:"channel"`
	Data          interface{} `json:"data"`
	Metadata      Metadata    `json:"metadata"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
}

// Subscriber subscribes to events
type Subscriber interface {
	Subscribe(ctx context.Context, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event *Event) error
}

// EventStore stores and retrieves events
type EventStore interface {
	SaveEvents(ctx context.Context, correlationID models.ID, events []*Event, expectedVersion int) error
	GetEvents(ctx context.Context, correlationID models.ID) ([]*Event, error)
	GetEventsByType(ctx context.Context, eventType string, offset, limit int) ([]*Event, error)
}

// NewEvent creates a new root event with a freshly minted correlation id
func NewEvent(eventType string, source string, channel Channel, data interface{}) *Event {
	return &Event{
		ID:            models.GenerateUUID(),
		CorrelationID: models.GenerateUUID(),
		EventType:     eventType,
		Source:        source,
		Channel:       channel,
		Data:          data,
		Metadata:      make(Metadata),
		Timestamp:     time.Now(),
	}
}

// NewDerivedEvent creates an event derived from a triggering event,
// propagating its correlation id unchanged
func NewDerivedEvent(trigger *Event, eventType string, source string, channel Channel, data interface{}) *Event {
	return &Event{
		ID:            models.GenerateUUID(),
		CorrelationID: trigger.CorrelationID,
		EventType:     eventType,
		Source:        source,
		Channel:       channel,
		Data:          data,
		Metadata:      make(Metadata),
		Timestamp:     time.Now(),
	}
}

// WithCorrelationID sets correlation ID
func (e *Event) WithCorrelationID(correlationID models.ID) *Event {
	e.CorrelationID = correlationID
	return e
}

// WithMetadata adds metadata
func (e *Event) WithMetadata(key string, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// ToJSON converts event to JSON
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON creates event from JSON
func FromJSON(data []byte) (*Event, error) {
	var event Event
	err := json.Unmarshal(data, &event)
	return &event, err
}

// MarshalPayload marshals the event payload
func (e *Event) MarshalPayload() (json.RawMessage, error) {
	if b, ok := e.Data.([]byte); ok {
		return b, nil
	}

	if b, ok := e.Data.(json.RawMessage); ok {
		return b, nil
	}

	return json.Marshal(e.Data)
}

// UnmarshalPayload unmarshals the event payload into the given interface
func (e *Event) UnmarshalPayload(v interface{}) error {
	vValue := reflect.ValueOf(v)
	if vValue.Kind() != reflect.Ptr {
		return ErrInvalidReceiver
	}

	vValue = vValue.Elem()
	payloadValue := reflect.ValueOf(e.Data)
	if vValue.Type() == payloadValue.Type() {
		vValue.Set(payloadValue)
		return nil
	}

	if b, ok := e.Data.([]byte); ok {
		return json.Unmarshal(b, v)
	}

	if b, ok := e.Data.(json.RawMessage); ok {
		return json.Unmarshal([]byte(b), v)
	}

	raw, err := e.MarshalPayload()
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}

// Clone creates a copy of the event
func (e *Event) Clone() *Event {
	return &Event{
		ID:            e.ID,
		CorrelationID: e.CorrelationID,
		EventType:     e.EventType,
		Source:        e.Source,
		Channel:       e.Channel,
		Data:          e.Data,
		Metadata:      e.Metadata.Clone(),
		Timestamp:     e.Timestamp,
	}
}

// Event Types Constants
const (
	// Order Events
	OrderCreatedEvent   = "order.created"
	OrderCompletedEvent = "order.completed"
	OrderFailedEvent    = "order.failed"

	// Inventory Events
	InventoryReservedEvent         = "inventory.reserved"
	InventoryFailedEvent           = "inventory.failed"
	InventoryReleaseRequestedEvent = "inventory.release.requested"
	InventoryReleasedEvent         = "inventory.released"

	// Payment Events
	PaymentProcessedEvent     = "payment.processed"
	PaymentFailedEvent        = "payment.failed"
	PaymentFraudDetectedEvent = "payment.fraud.detected"

	// Shipping Events
	ShipmentCreatedEvent = "shipment.created"
	ShipmentUpdatedEvent = "shipment.updated"

	// Operator Events
	CompensationFailedEvent = "compensation.failed"
)

// Source service names
const (
	OrderServiceSource     = "order-service"
	InventoryServiceSource = "inventory-service"
	PaymentServiceSource   = "payment-service"
	ShippingServiceSource  = "shipping-service"
)

// OrderItemData is the line item shape shared by order and inventory payloads.
// Unit price is captured at order time and never re-derived downstream.
type OrderItemData struct {
	ProductID models.ID    `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// OrderCreatedData is the root event payload produced by the order service
type OrderCreatedData struct {
	OrderID    models.ID       `json:"order_id"`
	CustomerID models.ID       `json:"customer_id"`
	Items      []OrderItemData `json:"items"`
	Total      models.Money    `json:"total"`
}

// InventoryReservedData carries the real order amount and customer reference
// forward so the payment service never has to look them up synchronously
type InventoryReservedData struct {
	OrderID    models.ID       `json:"order_id"`
	CustomerID models.ID       `json:"customer_id"`
	Items      []OrderItemData `json:"items"`
	Amount     models.Money    `json:"amount"`
}

// InventoryFailedData reports a failed reservation with a human-readable reason
type InventoryFailedData struct {
	OrderID models.ID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// InventoryReleaseRequestedData is the compensation request emitted by the
// order service when payment fails after a successful reservation
type InventoryReleaseRequestedData struct {
	OrderID models.ID       `json:"order_id"`
	Items   []OrderItemData `json:"items"`
}

// InventoryReleasedData confirms an applied compensation
type InventoryReleasedData struct {
	OrderID models.ID       `json:"order_id"`
	Items   []OrderItemData `json:"items"`
}

// PaymentProcessedData reports a successful payment
type PaymentProcessedData struct {
	OrderID   models.ID    `json:"order_id"`
	PaymentID models.ID    `json:"payment_id"`
	Amount    models.Money `json:"amount"`
	RiskScore int          `json:"risk_score"`
}

// PaymentFailedData reports a declined or errored payment
type PaymentFailedData struct {
	OrderID models.ID    `json:"order_id"`
	Amount  models.Money `json:"amount"`
	Reason  string       `json:"reason"`
}

// PaymentFraudDetectedData reports a payment blocked by risk scoring
type PaymentFraudDetectedData struct {
	OrderID   models.ID    `json:"order_id"`
	Amount    models.Money `json:"amount"`
	RiskScore int          `json:"risk_score"`
	Reason    string       `json:"reason"`
}

// ShipmentCreatedData reports a newly created shipment
type ShipmentCreatedData struct {
	OrderID           models.ID  `json:"order_id"`
	ShipmentID        models.ID  `json:"shipment_id"`
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// ShipmentUpdatedData reports a shipment status change
type ShipmentUpdatedData struct {
	OrderID        models.ID `json:"order_id"`
	ShipmentID     models.ID `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
}

// OrderStatusData reports a terminal order outcome
type OrderStatusData struct {
	OrderID models.ID `json:"order_id"`
	Status  string    `json:"status"`
	Reason  string    `json:"reason,omitempty"`
}

// CompensationFailedData is routed to the dead-letter channel when an
// unreserve request could not be applied; it represents state drift that
// automated compensation could not repair and needs an operator
type CompensationFailedData struct {
	OrderID models.ID `json:"order_id"`
	Reason  string    `json:"reason"`
}

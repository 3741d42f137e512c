package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for order notifications
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeFulfillmentChanged = "order.fulfillment_changed"
	EventTypePaymentChanged     = "order.payment_changed"
	EventTypeDueDateChanged     = "order.due_date_changed"
)

// Event is one order notification. Payload holds the JSON encoding of the
// payload struct matching Type.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OrderID    uuid.UUID       `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	RequestID  string          `json:"request_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// Event payloads (JSON-serializable)

// Contact is where customer-facing notifications for an order go.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderCreatedPayload is published after an order commits.
type OrderCreatedPayload struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
	PaymentMode   string          `json:"payment_mode"`
	PaymentStatus string          `json:"payment_status"`
	Lines         int             `json:"lines"`
	DueDate       time.Time       `json:"due_date"`
	Contact       Contact         `json:"contact"`
}

// StatusChangedPayload is published after a fulfillment or payment transition.
type StatusChangedPayload struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID uuid.UUID `json:"actor_id"`
	Contact *Contact  `json:"contact,omitempty"`
}

// DueDateChangedPayload is published after staff move an order's due date.
type DueDateChangedPayload struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	ActorID uuid.UUID `json:"actor_id"`
}

// NewEvent builds an event of the given type with its payload encoded.
func NewEvent(eventType string, orderID uuid.UUID, occurredAt time.Time, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: occurredAt.UTC(),
		Payload:    raw,
	}, nil
}

// Key is the partition/routing key: all events of one order share it so
// consumers see them in order.
func (e Event) Key() []byte {
	return []byte(e.OrderID.String())
}

// Marshal encodes the whole event envelope.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes an event envelope.
func UnmarshalEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if e.Type == "" || e.OrderID == uuid.Nil {
		return Event{}, fmt.Errorf("event missing type or order id")
	}
	return e, nil
}

// DecodePayload unmarshals the event payload into v.
func (e Event) DecodePayload(v interface{}) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

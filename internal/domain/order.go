package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order-related domain errors.
var (
	ErrOrderNotFound     = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrInvalidTransition = &Error{Code: EUNPROCESSABLE, Reason: ReasonInvalidTransition, Message: "Status transition not allowed"}
	ErrTotalMismatch     = &Error{Code: EINTERNAL, Message: "Stored order total does not match its items"}
	ErrDueBeforeCreation = &Error{Code: EINVALID, Message: "Due date cannot precede order creation"}
	ErrIdempotencyReplay = &Error{Code: ECONFLICT, Reason: ReasonDuplicateRequest, Message: "A request with this idempotency key is already in progress"}
	ErrNotCustomer       = &Error{Code: EFORBIDDEN, Message: "Only customers can place orders"}
	ErrStaffOnly         = &Error{Code: EFORBIDDEN, Message: "Only staff can perform this action"}
)

// ShippingAddress is owned by exactly one order and immutable once attached.
type ShippingAddress struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name" validate:"required,max=100"`
	LastName  string    `json:"last_name" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Address   string    `json:"address" validate:"required,max=255"`
	City      string    `json:"city" validate:"required,max=100"`
	Zip       string    `json:"zip" validate:"required,max=20"`
}

// OrderItem is a purchased line with its price frozen at creation.
type OrderItem struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int32           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// Order is the central aggregate. After creation only FulfillmentStatus,
// PaymentStatus and DueDate change, and only through the status machine.
type Order struct {
	ID                uuid.UUID         `json:"id"`
	CustomerID        uuid.UUID         `json:"customer_id"`
	Items             []OrderItem       `json:"items"`
	Total             decimal.Decimal   `json:"total"`
	ShippingID        uuid.UUID         `json:"shipping_id"`
	Shipping          *ShippingAddress  `json:"shipping,omitempty"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	PaymentMode       PaymentMode       `json:"payment_mode"`
	TransactionID     *string           `json:"transaction_id,omitempty"`
	MerchantOrderID   *string           `json:"merchant_order_id,omitempty"`
	BankReferenceID   *string           `json:"bank_reference_id,omitempty"`
	IdempotencyKey    *string           `json:"-"`
	DueDate           time.Time         `json:"due_date"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ItemsTotal sums quantity times frozen price over the items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.PriceAtPurchase.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return total
}

// VerifyTotal checks the stored total against the items. The total is never
// recomputed on read; a mismatch is reported instead.
func (o *Order) VerifyTotal() error {
	if len(o.Items) == 0 {
		return nil
	}
	if !o.ItemsTotal().Equal(o.Total) {
		return &Error{
			Code:    EINTERNAL,
			Op:      "order.verify_total",
			Message: ErrTotalMismatch.Message,
			Err:     NewAmountMismatch("order.verify_total", o.Total, o.ItemsTotal()),
		}
	}
	return nil
}

// OrderFilter narrows ListOrders. Zero values mean "no constraint".
type OrderFilter struct {
	CustomerID        *uuid.UUID
	FulfillmentStatus *FulfillmentStatus
	PaymentStatus     *PaymentStatus
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	Limit             int32
	Offset            int32
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Normalize clamps the page size into [1, MaxListLimit].
func (f OrderFilter) Normalize() OrderFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// OrderEventKind names an entry in an order's audit trail.
type OrderEventKind string

const (
	EventOrderCreated       OrderEventKind = "order_created"
	EventFulfillmentChanged OrderEventKind = "fulfillment_changed"
	EventPaymentChanged     OrderEventKind = "payment_changed"
	EventDueDateChanged     OrderEventKind = "due_date_changed"
)

// OrderEvent is one audit entry, written in the same transaction as the
// change it records.
type OrderEvent struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   uuid.UUID      `json:"order_id"`
	Kind      OrderEventKind `json:"kind"`
	FromValue string         `json:"from,omitempty"`
	ToValue   string         `json:"to,omitempty"`
	ActorID   uuid.UUID      `json:"actor_id"`
	CreatedAt time.Time      `json:"created_at"`
}

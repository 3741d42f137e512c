package domain

import (
	"fmt"
	"slices"
)

// FulfillmentStatus is the physical-delivery lifecycle state of an order.
type FulfillmentStatus string

const (
	FulfillmentPending    FulfillmentStatus = "pending"
	FulfillmentProcessing FulfillmentStatus = "processing"
	FulfillmentShipped    FulfillmentStatus = "shipped"
	FulfillmentDelivered  FulfillmentStatus = "delivered"
	FulfillmentCancelled  FulfillmentStatus = "cancelled"
)

// FulfillmentStatuses lists every fulfillment status in lifecycle order.
var FulfillmentStatuses = []FulfillmentStatus{
	FulfillmentPending,
	FulfillmentProcessing,
	FulfillmentShipped,
	FulfillmentDelivered,
	FulfillmentCancelled,
}

// PaymentStatus is the financial lifecycle state of an order,
// independent of fulfillment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentStatuses lists every payment status.
var PaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentPaid,
	PaymentRefunded,
	PaymentCancelled,
}

// fulfillmentTransitions is the complete table of legal fulfillment moves.
// Delivered and Cancelled are terminal.
var fulfillmentTransitions = map[FulfillmentStatus][]FulfillmentStatus{
	FulfillmentPending:    {FulfillmentProcessing, FulfillmentCancelled},
	FulfillmentProcessing: {FulfillmentShipped, FulfillmentCancelled},
	FulfillmentShipped:    {FulfillmentDelivered, FulfillmentCancelled},
	FulfillmentDelivered:  {},
	FulfillmentCancelled:  {},
}

// paymentTransitions is the complete table of legal payment moves.
// Refunded and Cancelled are terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid, PaymentRefunded, PaymentCancelled},
	PaymentPaid:      {PaymentRefunded},
	PaymentRefunded:  {},
	PaymentCancelled: {},
}

// ParseFulfillmentStatus converts s into a FulfillmentStatus.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	st := FulfillmentStatus(s)
	if _, ok := fulfillmentTransitions[st]; !ok {
		return "", Errorf(EINVALID, "order.parse_fulfillment_status", "unknown fulfillment status: %q", s)
	}
	return st, nil
}

// ParsePaymentStatus converts s into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(s)
	if _, ok := paymentTransitions[st]; !ok {
		return "", Errorf(EINVALID, "order.parse_payment_status", "unknown payment status: %q", s)
	}
	return st, nil
}

// Valid reports whether s is a known fulfillment status.
func (s FulfillmentStatus) Valid() bool {
	_, ok := fulfillmentTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s FulfillmentStatus) Terminal() bool {
	return s.Valid() && len(fulfillmentTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s FulfillmentStatus) CanTransitionTo(next FulfillmentStatus) bool {
	return slices.Contains(fulfillmentTransitions[s], next)
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s PaymentStatus) Terminal() bool {
	return s.Valid() && len(paymentTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return slices.Contains(paymentTransitions[s], next)
}

// StatusAxis names which half of the two-axis status model a transition targets.
type StatusAxis string

const (
	AxisFulfillment StatusAxis = "fulfillment"
	AxisPayment     StatusAxis = "payment"
)

// InvalidTransition describes a rejected status change.
type InvalidTransition struct {
	Axis StatusAxis
	From string
	To   string
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("%s status cannot change from %s to %s", e.Axis, e.From, e.To)
}

// NewInvalidTransition builds the error returned when a status change is not
// in the transition table. The stored state is left untouched.
func NewInvalidTransition(op string, axis StatusAxis, from, to string) error {
	detail := &InvalidTransition{Axis: axis, From: from, To: to}
	return &Error{
		Code:    EUNPROCESSABLE,
		Reason:  ReasonInvalidTransition,
		Op:      op,
		Message: detail.Error(),
		Err:     detail,
	}
}

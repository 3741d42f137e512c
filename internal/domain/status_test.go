package domain

import (
	"errors"
	"testing"
)

func TestFulfillmentTransitions(t *testing.T) {
	legal := map[FulfillmentStatus]map[FulfillmentStatus]bool{
		FulfillmentPending:    {FulfillmentProcessing: true, FulfillmentCancelled: true},
		FulfillmentProcessing: {FulfillmentShipped: true, FulfillmentCancelled: true},
		FulfillmentShipped:    {FulfillmentDelivered: true, FulfillmentCancelled: true},
		FulfillmentDelivered:  {},
		FulfillmentCancelled:  {},
	}

	// Every (from, to) pair, including self-transitions and unknown targets.
	targets := append(append([]FulfillmentStatus{}, FulfillmentStatuses...), FulfillmentStatus("lost"))
	for _, from := range FulfillmentStatuses {
		for _, to := range targets {
			want := legal[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: CanTransitionTo = %v, want %v", from, to, got, want)
			}
		}
	}

	if FulfillmentStatus("lost").CanTransitionTo(FulfillmentPending) {
		t.Error("unknown status must not transition")
	}
}

func TestPaymentTransitions(t *testing.T) {
	legal := map[PaymentStatus]map[PaymentStatus]bool{
		PaymentPending:   {PaymentPaid: true, PaymentRefunded: true, PaymentCancelled: true},
		PaymentPaid:      {PaymentRefunded: true},
		PaymentRefunded:  {},
		PaymentCancelled: {},
	}

	targets := append(append([]PaymentStatus{}, PaymentStatuses...), PaymentStatus("disputed"))
	for _, from := range PaymentStatuses {
		for _, to := range targets {
			want := legal[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: CanTransitionTo = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		got      bool
	}{
		{"fulfillment pending", false, FulfillmentPending.Terminal()},
		{"fulfillment shipped", false, FulfillmentShipped.Terminal()},
		{"fulfillment delivered", true, FulfillmentDelivered.Terminal()},
		{"fulfillment cancelled", true, FulfillmentCancelled.Terminal()},
		{"fulfillment unknown", false, FulfillmentStatus("x").Terminal()},
		{"payment pending", false, PaymentPending.Terminal()},
		{"payment paid", false, PaymentPaid.Terminal()},
		{"payment refunded", true, PaymentRefunded.Terminal()},
		{"payment cancelled", true, PaymentCancelled.Terminal()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", tt.got, tt.terminal)
			}
		})
	}
}

func TestParseStatuses(t *testing.T) {
	for _, s := range FulfillmentStatuses {
		got, err := ParseFulfillmentStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseFulfillmentStatus(%q) = %q, %v", s, got, err)
		}
	}
	for _, s := range PaymentStatuses {
		got, err := ParsePaymentStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParsePaymentStatus(%q) = %q, %v", s, got, err)
		}
	}

	if _, err := ParseFulfillmentStatus("Delivered"); !IsCode(err, EINVALID) {
		t.Errorf("expected EINVALID for wrong case, got %v", err)
	}
	if _, err := ParsePaymentStatus(""); !IsCode(err, EINVALID) {
		t.Errorf("expected EINVALID for empty status, got %v", err)
	}
}

func TestNewInvalidTransition(t *testing.T) {
	err := NewInvalidTransition("order.transition_fulfillment", AxisFulfillment, "delivered", "cancelled")

	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("expected errors.Is(err, ErrInvalidTransition)")
	}
	if ErrorCode(err) != EUNPROCESSABLE {
		t.Errorf("expected code %q, got %q", EUNPROCESSABLE, ErrorCode(err))
	}
	if IsRetryable(err) {
		t.Error("invalid transition must not be retryable")
	}

	var detail *InvalidTransition
	if !errors.As(err, &detail) {
		t.Fatal("expected *InvalidTransition detail")
	}
	if detail.From != "delivered" || detail.To != "cancelled" || detail.Axis != AxisFulfillment {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if msg := ErrorMessage(err); msg != "fulfillment status cannot change from delivered to cancelled" {
		t.Errorf("unexpected message %q", msg)
	}
}

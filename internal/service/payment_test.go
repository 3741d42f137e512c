package service

import (
	"errors"
	"testing"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/shopspring/decimal"
)

func TestBindPayment(t *testing.T) {
	total := decimal.RequireFromString("50.00")

	complete := func(amount, method string) *domain.PaymentResult {
		return &domain.PaymentResult{
			TransactionID:   " txn_123 ",
			MerchantOrderID: "mo_456",
			BankReferenceID: "bank_789",
			Method:          method,
			Amount:          decimal.RequireFromString(amount),
		}
	}

	tests := []struct {
		name            string
		result          *domain.PaymentResult
		wantMode        domain.PaymentMode
		wantPayment     domain.PaymentStatus
		wantFulfillment domain.FulfillmentStatus
		wantErr         error
	}{
		{
			name:            "cash on delivery",
			result:          nil,
			wantMode:        domain.PaymentModeCashOnDelivery,
			wantPayment:     domain.PaymentPending,
			wantFulfillment: domain.FulfillmentPending,
		},
		{
			name:            "online card",
			result:          complete("50", "card"),
			wantMode:        "card",
			wantPayment:     domain.PaymentPaid,
			wantFulfillment: domain.FulfillmentProcessing,
		},
		{
			name:            "online without method",
			result:          complete("50.00", ""),
			wantMode:        "online",
			wantPayment:     domain.PaymentPaid,
			wantFulfillment: domain.FulfillmentProcessing,
		},
		{
			name:    "amount differs",
			result:  complete("45.00", "card"),
			wantErr: domain.ErrAmountMismatch,
		},
		{
			name: "missing bank reference",
			result: &domain.PaymentResult{
				TransactionID:   "txn_123",
				MerchantOrderID: "mo_456",
				Amount:          total,
			},
			wantErr: domain.ErrIncompletePaymentResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BindPayment(tt.result, total)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BindPayment() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BindPayment() unexpected error: %v", err)
			}

			if got.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", got.Mode, tt.wantMode)
			}
			if got.PaymentStatus != tt.wantPayment {
				t.Errorf("PaymentStatus = %q, want %q", got.PaymentStatus, tt.wantPayment)
			}
			if got.FulfillmentStatus != tt.wantFulfillment {
				t.Errorf("FulfillmentStatus = %q, want %q", got.FulfillmentStatus, tt.wantFulfillment)
			}

			if tt.result == nil {
				if got.TransactionID != nil || got.MerchantOrderID != nil || got.BankReferenceID != nil {
					t.Errorf("cash on delivery must not carry gateway evidence")
				}
				return
			}
			if got.TransactionID == nil || *got.TransactionID != "txn_123" {
				t.Errorf("TransactionID = %v, want txn_123", got.TransactionID)
			}
		})
	}
}

func TestCheckPaymentResult_RejectsCashOnDeliveryMethod(t *testing.T) {
	err := checkPaymentResult("order.create", &domain.PaymentResult{
		TransactionID:   "t",
		MerchantOrderID: "m",
		BankReferenceID: "b",
		Method:          "cash_on_delivery",
	})
	if domain.ErrorCode(err) != domain.EINVALID {
		t.Errorf("expected invalid error, got %v", err)
	}
}

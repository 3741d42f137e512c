package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMode is how an order is paid. Online gateways use their own method
// string; deferred payment is PaymentModeCashOnDelivery.
type PaymentMode string

const PaymentModeCashOnDelivery PaymentMode = "cash_on_delivery"

// IsOnline reports whether the mode carries gateway evidence.
func (m PaymentMode) IsOnline() bool {
	return m != "" && m != PaymentModeCashOnDelivery
}

var ErrIncompletePaymentResult = &Error{
	Code:    EINVALID,
	Reason:  ReasonIncompletePaymentResult,
	Message: "Payment result is missing transaction evidence",
}

// PaymentResult is an online payment outcome that the gateway integration has
// already verified. The core does not re-check gateway signatures.
type PaymentResult struct {
	TransactionID   string          `json:"transaction_id"`
	MerchantOrderID string          `json:"merchant_order_id"`
	BankReferenceID string          `json:"bank_reference_id"`
	Method          string          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
}

// MissingFields returns the names of required identifiers that are blank.
func (r PaymentResult) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.TransactionID) == "" {
		missing = append(missing, "transaction_id")
	}
	if strings.TrimSpace(r.MerchantOrderID) == "" {
		missing = append(missing, "merchant_order_id")
	}
	if strings.TrimSpace(r.BankReferenceID) == "" {
		missing = append(missing, "bank_reference_id")
	}
	return missing
}

// PaymentBinding is the payment half of a new order: its mode, initial
// statuses and frozen gateway evidence.
type PaymentBinding struct {
	Mode              PaymentMode
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	TransactionID     *string
	MerchantOrderID   *string
	BankReferenceID   *string
}

package service

import (
	"fmt"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// defaultOnlineMethod is recorded when a verified result names no method.
const defaultOnlineMethod domain.PaymentMode = "online"

// checkPaymentResult validates a payment result at the boundary, before any
// transaction starts.
func checkPaymentResult(op string, result *domain.PaymentResult) error {
	if result == nil {
		return nil
	}
	if missing := result.MissingFields(); len(missing) > 0 {
		return &domain.Error{
			Code:    domain.EINVALID,
			Reason:  domain.ReasonIncompletePaymentResult,
			Op:      op,
			Message: fmt.Sprintf("%s: missing %s", domain.ErrIncompletePaymentResult.Message, strings.Join(missing, ", ")),
		}
	}
	if domain.PaymentMode(strings.TrimSpace(result.Method)) == domain.PaymentModeCashOnDelivery {
		return ErrOnlineMethodRequired
	}
	return nil
}

// BindPayment decides the payment half of a new order. Without a result the
// order is cash on delivery: payment pending, fulfillment pending, no
// evidence. With a result the three gateway identifiers are required, the
// reported amount must equal the server-computed total, and the order starts
// paid and processing.
func BindPayment(result *domain.PaymentResult, total decimal.Decimal) (domain.PaymentBinding, error) {
	const op = "payment.bind"

	if result == nil {
		return domain.PaymentBinding{
			Mode:              domain.PaymentModeCashOnDelivery,
			PaymentStatus:     domain.PaymentPending,
			FulfillmentStatus: domain.FulfillmentPending,
		}, nil
	}

	if err := checkPaymentResult(op, result); err != nil {
		return domain.PaymentBinding{}, err
	}
	if !result.Amount.Equal(total) {
		return domain.PaymentBinding{}, domain.NewAmountMismatch(op, result.Amount, total)
	}

	mode := domain.PaymentMode(strings.TrimSpace(result.Method))
	if mode == "" {
		mode = defaultOnlineMethod
	}

	return domain.PaymentBinding{
		Mode:              mode,
		PaymentStatus:     domain.PaymentPaid,
		FulfillmentStatus: domain.FulfillmentProcessing,
		TransactionID:     frozen(result.TransactionID),
		MerchantOrderID:   frozen(result.MerchantOrderID),
		BankReferenceID:   frozen(result.BankReferenceID),
	}, nil
}

func frozen(s string) *string {
	v := strings.TrimSpace(s)
	return &v
}

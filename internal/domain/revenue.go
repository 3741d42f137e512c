package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is a half-open [From, To) window over order creation time.
type DateRange struct {
	From time.Time
	To   time.Time
}

// MaxReportDays bounds the daily series a single report may produce.
const MaxReportDays = 366

// Validate checks that the range is non-empty and within MaxReportDays.
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return NewValidationError("revenue.aggregate", "range", "from and to are required")
	}
	if !r.To.After(r.From) {
		return NewValidationError("revenue.aggregate", "range", "to must be after from")
	}
	if r.To.Sub(r.From) > MaxReportDays*24*time.Hour {
		return NewValidationError("revenue.aggregate", "range", "range exceeds maximum report length")
	}
	return nil
}

// DailyRevenue is one UTC day of the revenue series.
type DailyRevenue struct {
	Day     time.Time       `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// RevenueReport is a derived read-side projection. It is recomputed on demand
// and never written back.
type RevenueReport struct {
	From              time.Time                   `json:"from"`
	To                time.Time                   `json:"to"`
	TotalRevenue      decimal.Decimal             `json:"total_revenue"`
	PaidOrders        int64                       `json:"paid_orders"`
	AverageOrderValue decimal.Decimal             `json:"average_order_value"`
	TotalOrders       int64                       `json:"total_orders"`
	ByFulfillment     map[FulfillmentStatus]int64 `json:"by_fulfillment"`
	ByPayment         map[PaymentStatus]int64     `json:"by_payment"`
	Daily             []DailyRevenue              `json:"daily"`
}

// CountsRevenue reports whether an order contributes to revenue: it must be
// paid and not cancelled.
func CountsRevenue(f FulfillmentStatus, p PaymentStatus) bool {
	return p == PaymentPaid && f != FulfillmentCancelled
}

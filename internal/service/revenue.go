package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/shopspring/decimal"
)

// RevenueService computes read-only reporting projections over orders.
type RevenueService interface {
	// AggregateRevenue reports revenue and status distributions for orders
	// created in the half-open range. Revenue counts orders that are paid and
	// not cancelled. Staff only.
	AggregateRevenue(ctx context.Context, p *domain.Principal, r domain.DateRange) (*domain.RevenueReport, error)
}

type revenueService struct {
	store  Store
	logger *slog.Logger
}

// NewRevenueService creates a new RevenueService instance
func NewRevenueService(store Store, logger *slog.Logger) RevenueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &revenueService{
		store:  store,
		logger: logger.With("service", "revenue"),
	}
}

const dayLayout = "2006-01-02"

func (s *revenueService) AggregateRevenue(ctx context.Context, p *domain.Principal, r domain.DateRange) (*domain.RevenueReport, error) {
	const op = "revenue.aggregate"

	if p == nil {
		return nil, ErrNotAuthenticated
	}
	if !p.IsStaff() {
		return nil, ErrStaffOnly
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	from, to := r.From.UTC(), r.To.UTC()

	counts, err := s.store.CountOrdersByStatus(ctx, repository.CountOrdersByStatusParams{
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to count orders")
	}

	days, err := s.store.GetRevenueByDay(ctx, repository.GetRevenueByDayParams{
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to aggregate revenue")
	}

	report := &domain.RevenueReport{
		From:          from,
		To:            to,
		TotalRevenue:  decimal.Zero,
		ByFulfillment: make(map[domain.FulfillmentStatus]int64, len(domain.FulfillmentStatuses)),
		ByPayment:     make(map[domain.PaymentStatus]int64, len(domain.PaymentStatuses)),
	}
	for _, st := range domain.FulfillmentStatuses {
		report.ByFulfillment[st] = 0
	}
	for _, st := range domain.PaymentStatuses {
		report.ByPayment[st] = 0
	}

	for _, c := range counts {
		report.TotalOrders += c.Orders
		report.ByFulfillment[domain.FulfillmentStatus(c.FulfillmentStatus)] += c.Orders
		report.ByPayment[domain.PaymentStatus(c.PaymentStatus)] += c.Orders
	}

	byDay := make(map[string]repository.GetRevenueByDayRow, len(days))
	for _, d := range days {
		byDay[d.Day] = d
		report.TotalRevenue = report.TotalRevenue.Add(d.Revenue)
		report.PaidOrders += d.Orders
	}

	report.Daily = dailySeries(from, to, byDay)

	if report.PaidOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.
			Div(decimal.NewFromInt(report.PaidOrders)).
			Round(2)
	} else {
		report.AverageOrderValue = decimal.Zero
	}

	s.logger.DebugContext(ctx, "revenue aggregated",
		"from", from,
		"to", to,
		"orders", report.TotalOrders,
		"paid_orders", report.PaidOrders,
		"revenue", report.TotalRevenue.StringFixed(2),
	)

	return report, nil
}

// dailySeries returns one entry per UTC day touched by [from, to), with
// zero revenue on days that had none.
func dailySeries(from, to time.Time, byDay map[string]repository.GetRevenueByDayRow) []domain.DailyRevenue {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	var series []domain.DailyRevenue
	for day := start; day.Before(to); day = day.AddDate(0, 0, 1) {
		entry := domain.DailyRevenue{Day: day, Revenue: decimal.Zero}
		if row, ok := byDay[day.Format(dayLayout)]; ok {
			entry.Revenue = row.Revenue
			entry.Orders = row.Orders
		}
		series = append(series, entry)
	}
	return series
}

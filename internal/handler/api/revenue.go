package api

import (
	"net/http"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/handler"
	"github.com/dukerupert/orderdesk/internal/service"
)

// RevenueHandler serves revenue reports.
type RevenueHandler struct {
	revenue service.RevenueService
}

// NewRevenueHandler creates a new RevenueHandler
func NewRevenueHandler(revenue service.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenue: revenue}
}

// Report handles GET /api/reports/revenue?from=2025-01-01&to=2025-02-01
//
// The range is half-open. A bare date for "to" therefore excludes that day.
func (h *RevenueHandler) Report(w http.ResponseWriter, r *http.Request) {
	const op = "api.reports.revenue"

	var (
		rng  domain.DateRange
		verr error
	)
	from, err := queryTime(r, "from")
	switch {
	case err != nil:
		verr = domain.AddFieldError(verr, "from", "must be a date or RFC 3339 timestamp")
	case from == nil:
		verr = domain.AddFieldError(verr, "from", "is required")
	default:
		rng.From = *from
	}
	to, err := queryTime(r, "to")
	switch {
	case err != nil:
		verr = domain.AddFieldError(verr, "to", "must be a date or RFC 3339 timestamp")
	case to == nil:
		rng.To = time.Now().UTC()
	default:
		rng.To = *to
	}
	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		handler.ErrorResponse(w, r, verr)
		return
	}

	report, err := h.revenue.AggregateRevenue(r.Context(), domain.PrincipalFromContext(r.Context()), rng)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, report)
}

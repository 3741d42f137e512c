package routes

import (
	"net/http"

	"github.com/dukerupert/orderdesk/internal/handler/api"
	"github.com/dukerupert/orderdesk/internal/middleware"
)

// APIDeps contains dependencies for the order API routes
type APIDeps struct {
	Orders  *api.OrderHandler
	Revenue *api.RevenueHandler
	Health  *api.HealthHandler

	// Metrics serves the Prometheus exposition format. Optional.
	Metrics http.Handler

	// CheckoutLimiter throttles order creation per principal. Optional.
	CheckoutLimiter *middleware.RateLimiter
}

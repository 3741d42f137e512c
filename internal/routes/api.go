// Package routes binds handlers to URL patterns.
package routes

import (
	"github.com/dukerupert/orderdesk/internal/middleware"
	"github.com/dukerupert/orderdesk/internal/router"
)

// RegisterAPIRoutes registers the order API, health probes and metrics.
//
// Every /api route requires a principal; role checks happen in the services.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	if deps.Metrics != nil {
		r.Mount("/metrics", deps.Metrics)
	}

	apiGroup := r.Group("/api", middleware.RequirePrincipal)

	// Checkout (rate limited per principal when a limiter is configured)
	if deps.CheckoutLimiter != nil {
		apiGroup.Post("/orders", deps.Orders.Create, deps.CheckoutLimiter.Middleware)
	} else {
		apiGroup.Post("/orders", deps.Orders.Create)
	}
	apiGroup.Post("/cart/preview", deps.Orders.Preview)

	// Orders
	apiGroup.Get("/orders", deps.Orders.List)
	apiGroup.Get("/orders/{id}", deps.Orders.Get)
	apiGroup.Get("/orders/{id}/history", deps.Orders.History)
	apiGroup.Post("/orders/{id}/fulfillment", deps.Orders.Fulfillment)
	apiGroup.Post("/orders/{id}/payment", deps.Orders.Payment)
	apiGroup.Put("/orders/{id}/due-date", deps.Orders.DueDate)

	// Reports
	apiGroup.Get("/reports/revenue", deps.Revenue.Report)
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/orderdesk/internal/handler"
	"github.com/dukerupert/orderdesk/internal/middleware"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store   Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 2 * time.Second}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// Live handles GET /healthz
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready handles GET /readyz
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		middleware.GetLogger(r.Context()).Warn("readiness check failed", "error", err)
		handler.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Store: "down"})
		return
	}
	handler.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Store: "up"})
}

package telemetry

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics

	assert.NotPanics(t, func() {
		m.ObserveCheckoutAttempt(true)
		m.ObserveCheckoutFailed("conflict", "insufficient_stock")
		m.ObserveOrderCreated(false, decimal.NewFromInt(30), 1)
		m.ObserveTransition("payment", "pending", "paid", decimal.NewFromInt(30))
		m.ObserveTransitionRejected("fulfillment")
		m.ObservePublish("order.created", 0.01, nil)
		m.ObserveDropped("order.created")
	})
}

func TestBusinessMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics(reg, "test")

	m.ObserveCheckoutAttempt(false)
	m.ObserveCheckoutAttempt(true)
	m.ObserveCheckoutFailed("conflict", "insufficient_stock")
	m.ObserveCheckoutFailed("invalid", "")
	m.ObserveOrderCreated(true, decimal.NewFromInt(50), 2)
	m.ObserveTransition("payment", "pending", "paid", decimal.NewFromInt(30))
	m.ObserveTransition("payment", "paid", "refunded", decimal.NewFromInt(30))
	m.ObserveTransition("fulfillment", "pending", "processing", decimal.NewFromInt(30))
	m.ObserveTransitionRejected("fulfillment")
	m.ObservePublish("order.created", 0.01, nil)
	m.ObservePublish("order.created", 0.02, errors.New("broker down"))
	m.ObserveDropped("order.created")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutAttempts.WithLabelValues("cash_on_delivery")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutAttempts.WithLabelValues("online")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutFailed.WithLabelValues("invalid", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("online")))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.RevenueCollected), "online order plus later payment")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefundsIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("fulfillment", "pending", "processing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionRejected.WithLabelValues("fulfillment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsPublished.WithLabelValues("order.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("order.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped.WithLabelValues("order.created")))
}

func TestSentryDisabledIsNoop(t *testing.T) {
	assert.False(t, IsEnabled())
	assert.NotPanics(t, func() {
		CaptureError(errors.New("boom"), map[string]interface{}{"order_id": "x"})
		AddBreadcrumb("order", "created", nil)
	})
}

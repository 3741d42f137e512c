package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for order-level observability.
// A nil *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	// Checkout funnel
	CheckoutAttempts *prometheus.CounterVec
	CheckoutFailed   *prometheus.CounterVec
	StockConflicts   prometheus.Counter

	// Orders
	OrdersCreated  *prometheus.CounterVec
	OrderValue     *prometheus.HistogramVec
	OrderItemCount prometheus.Histogram

	// Status machine
	StatusTransitions  *prometheus.CounterVec
	TransitionRejected *prometheus.CounterVec

	// Revenue tracking
	RevenueCollected prometheus.Counter
	RefundsIssued    prometheus.Counter

	// Notifications
	NotificationsPublished *prometheus.CounterVec
	NotificationsFailed    *prometheus.CounterVec
	NotificationsDropped   *prometheus.CounterVec
	NotificationLatency    prometheus.Histogram
}

// NewBusinessMetrics creates all business metrics and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "orderdesk"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "business"

	m := &BusinessMetrics{
		// =======================================================================
		// Checkout Funnel
		// =======================================================================
		CheckoutAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_attempts_total",
				Help:      "Total order creation attempts",
			},
			[]string{"payment_mode"}, // payment_mode: cash_on_delivery, online
		),
		CheckoutFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Total failed order creations by error code and reason",
			},
			[]string{"code", "reason"},
		),
		StockConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stock_conflicts_total",
				Help:      "Checkouts that lost a concurrent race for the same stock",
			},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders committed",
			},
			[]string{"payment_mode"},
		),
		OrderValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Committed order totals in store currency",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"payment_mode"},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of distinct lines per committed order",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
		),

		// =======================================================================
		// Status Machine
		// =======================================================================
		StatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "status_transitions_total",
				Help:      "Applied order status transitions",
			},
			[]string{"axis", "from", "to"},
		),
		TransitionRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "status_transitions_rejected_total",
				Help:      "Status transitions refused by the transition table",
			},
			[]string{"axis"},
		),

		// =======================================================================
		// Revenue Tracking
		// =======================================================================
		RevenueCollected: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "revenue_collected",
				Help:      "Order value that moved to paid (excludes refunds)",
			},
		),
		RefundsIssued: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refunds_issued_total",
				Help:      "Total orders moved to refunded",
			},
		),

		// =======================================================================
		// Notifications
		// =======================================================================
		NotificationsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_published_total",
				Help:      "Order events delivered to the notification backend",
			},
			[]string{"event_type"},
		),
		NotificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_failed_total",
				Help:      "Order events the notification backend rejected",
			},
			[]string{"event_type"},
		),
		NotificationsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_dropped_total",
				Help:      "Order events dropped because the dispatch queue was full or closed",
			},
			[]string{"event_type"},
		),
		NotificationLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notification_publish_duration_seconds",
				Help:      "Time spent publishing one order event",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
	}

	return m
}

// ObserveCheckoutAttempt counts an order creation attempt.
func (m *BusinessMetrics) ObserveCheckoutAttempt(online bool) {
	if m == nil {
		return
	}
	m.CheckoutAttempts.WithLabelValues(modeLabel(online)).Inc()
}

// ObserveCheckoutFailed counts a failed order creation.
func (m *BusinessMetrics) ObserveCheckoutFailed(code, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.CheckoutFailed.WithLabelValues(code, reason).Inc()
	if code == "conflict" && reason == "insufficient_stock" {
		m.StockConflicts.Inc()
	}
}

// ObserveOrderCreated records a committed order.
func (m *BusinessMetrics) ObserveOrderCreated(online bool, total decimal.Decimal, lines int) {
	if m == nil {
		return
	}
	mode := modeLabel(online)
	m.OrdersCreated.WithLabelValues(mode).Inc()
	m.OrderValue.WithLabelValues(mode).Observe(total.InexactFloat64())
	m.OrderItemCount.Observe(float64(lines))
	if online {
		m.RevenueCollected.Add(total.InexactFloat64())
	}
}

// ObserveTransition records an applied status change.
func (m *BusinessMetrics) ObserveTransition(axis, from, to string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(axis, from, to).Inc()
	if axis != "payment" {
		return
	}
	switch to {
	case "paid":
		m.RevenueCollected.Add(total.InexactFloat64())
	case "refunded":
		m.RefundsIssued.Inc()
	}
}

// ObserveTransitionRejected counts a transition refused by the table.
func (m *BusinessMetrics) ObserveTransitionRejected(axis string) {
	if m == nil {
		return
	}
	m.TransitionRejected.WithLabelValues(axis).Inc()
}

// ObservePublish records the outcome of delivering one event.
func (m *BusinessMetrics) ObservePublish(eventType string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.NotificationLatency.Observe(seconds)
	if err != nil {
		m.NotificationsFailed.WithLabelValues(eventType).Inc()
		return
	}
	m.NotificationsPublished.WithLabelValues(eventType).Inc()
}

// ObserveDropped counts an event that was never handed to a publisher.
func (m *BusinessMetrics) ObserveDropped(eventType string) {
	if m == nil {
		return
	}
	m.NotificationsDropped.WithLabelValues(eventType).Inc()
}

func modeLabel(online bool) string {
	if online {
		return "online"
	}
	return "cash_on_delivery"
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/handler"
	"github.com/dukerupert/orderdesk/internal/middleware"
	"github.com/dukerupert/orderdesk/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader carries the client's checkout idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler serves the order endpoints.
type OrderHandler struct {
	orders service.OrderService
	retry  RetryPolicy
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler. Checkout and status changes
// are retried under retry when they fail with a retryable error.
func NewOrderHandler(orders service.OrderService, retry RetryPolicy, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{
		orders: orders,
		retry:  retry,
		logger: logger.With("handler", "orders"),
	}
}

type createOrderRequest struct {
	Cart          domain.Cart            `json:"cart"`
	Shipping      domain.ShippingAddress `json:"shipping"`
	Payment       *domain.PaymentResult  `json:"payment"`
	ExpectedTotal *decimal.Decimal       `json:"expected_total"`
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.create"

	var req createOrderRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	params := service.CreateOrderParams{
		Cart:           req.Cart,
		Shipping:       req.Shipping,
		Payment:        req.Payment,
		ExpectedTotal:  req.ExpectedTotal,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)),
	}
	p := domain.PrincipalFromContext(r.Context())

	var order *domain.Order
	err := h.retry.Do(r.Context(), func(ctx context.Context) error {
		var err error
		order, err = h.orders.CreateOrder(ctx, p, params)
		return err
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("order created",
		"order_id", order.ID,
		"total", order.Total.StringFixed(2),
	)
	w.Header().Set("Location", "/api/orders/"+order.ID.String())
	handler.WriteJSON(w, http.StatusCreated, order)
}

type previewRequest struct {
	Cart domain.Cart `json:"cart"`
}

// Preview handles POST /api/cart/preview
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	const op = "api.cart.preview"

	var req previewRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.orders.PreviewCart(r.Context(), domain.PrincipalFromContext(r.Context()), req.Cart)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, cart)
}

type listOrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
	Limit  int32           `json:"limit"`
	Offset int32           `json:"offset"`
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), domain.PrincipalFromContext(r.Context()), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	filter = filter.Normalize()
	handler.WriteJSON(w, http.StatusOK, listOrdersResponse{
		Orders: orders,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func parseOrderFilter(r *http.Request) (domain.OrderFilter, error) {
	const op = "api.orders.list"

	var (
		filter domain.OrderFilter
		verr   error
	)
	q := r.URL.Query()

	if raw := q.Get("fulfillment_status"); raw != "" {
		s, err := domain.ParseFulfillmentStatus(raw)
		if err != nil {
			verr = domain.AddFieldError(verr, "fulfillment_status", "unknown status")
		} else {
			filter.FulfillmentStatus = &s
		}
	}
	if raw := q.Get("payment_status"); raw != "" {
		s, err := domain.ParsePaymentStatus(raw)
		if err != nil {
			verr = domain.AddFieldError(verr, "payment_status", "unknown status")
		} else {
			filter.PaymentStatus = &s
		}
	}
	if raw := q.Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			verr = domain.AddFieldError(verr, "customer_id", "must be a UUID")
		} else {
			filter.CustomerID = &id
		}
	}

	var err error
	if filter.CreatedFrom, err = queryTime(r, "created_from"); err != nil {
		verr = domain.AddFieldError(verr, "created_from", "must be a date or RFC 3339 timestamp")
	}
	if filter.CreatedTo, err = queryTime(r, "created_to"); err != nil {
		verr = domain.AddFieldError(verr, "created_to", "must be a date or RFC 3339 timestamp")
	}
	if filter.Limit, err = queryInt32(r, "limit"); err != nil {
		verr = domain.AddFieldError(verr, "limit", "must be a non-negative integer")
	}
	if filter.Offset, err = queryInt32(r, "offset"); err != nil {
		verr = domain.AddFieldError(verr, "offset", "must be a non-negative integer")
	}

	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return domain.OrderFilter{}, verr
	}
	return filter, nil
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "api.orders.get")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), domain.PrincipalFromContext(r.Context()), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, order)
}

type historyResponse struct {
	OrderID uuid.UUID           `json:"order_id"`
	Events  []domain.OrderEvent `json:"events"`
}

// History handles GET /api/orders/{id}/history
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "api.orders.history")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	events, err := h.orders.OrderHistory(r.Context(), domain.PrincipalFromContext(r.Context()), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if events == nil {
		events = []domain.OrderEvent{}
	}
	handler.WriteJSON(w, http.StatusOK, historyResponse{OrderID: id, Events: events})
}

type statusRequest struct {
	Status string `json:"status"`
}

// Fulfillment handles POST /api/orders/{id}/fulfillment
func (h *OrderHandler) Fulfillment(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.fulfillment"

	id, err := pathID(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	to, err := domain.ParseFulfillmentStatus(req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "status", "unknown fulfillment status"))
		return
	}

	p := domain.PrincipalFromContext(r.Context())
	var order *domain.Order
	err = h.retry.Do(r.Context(), func(ctx context.Context) error {
		var err error
		order, err = h.orders.TransitionFulfillment(ctx, p, id, to)
		return err
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, order)
}

// Payment handles POST /api/orders/{id}/payment
func (h *OrderHandler) Payment(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.payment"

	id, err := pathID(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	to, err := domain.ParsePaymentStatus(req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "status", "unknown payment status"))
		return
	}

	p := domain.PrincipalFromContext(r.Context())
	var order *domain.Order
	err = h.retry.Do(r.Context(), func(ctx context.Context) error {
		var err error
		order, err = h.orders.TransitionPayment(ctx, p, id, to)
		return err
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, order)
}

type dueDateRequest struct {
	DueDate string `json:"due_date"`
}

// DueDate handles PUT /api/orders/{id}/due-date
func (h *OrderHandler) DueDate(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.due_date"

	id, err := pathID(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req dueDateRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var due time.Time
	if req.DueDate != "" {
		due, err = parseTime(req.DueDate)
	}
	if req.DueDate == "" || err != nil {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "due_date", "must be a date or RFC 3339 timestamp"))
		return
	}

	order, err := h.orders.UpdateDueDate(r.Context(), domain.PrincipalFromContext(r.Context()), id, due)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, order)
}

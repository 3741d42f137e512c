package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRetry = RetryPolicy{MaxRetries: 2, Base: time.Millisecond}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:                uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		CustomerID:        testCustomer.ID,
		Total:             decimal.RequireFromString("25.50"),
		FulfillmentStatus: domain.FulfillmentPending,
		PaymentStatus:     domain.PaymentPending,
		PaymentMode:       domain.PaymentModeCashOnDelivery,
	}
}

const createBody = `{
	"cart": [{"product_id": "44444444-4444-4444-4444-444444444444", "quantity": 2}],
	"shipping": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "address": "1 Main St", "city": "Helena", "zip": "59601"},
	"expected_total": "25.50"
}`

func TestOrderHandler_Create(t *testing.T) {
	var got service.CreateOrderParams
	svc := &fakeOrderService{
		createOrder: func(_ context.Context, p *domain.Principal, params service.CreateOrderParams) (*domain.Order, error) {
			assert.Equal(t, testCustomer, p)
			got = params
			return testOrder(), nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	req := newRequest(http.MethodPost, "/api/orders", createBody, testCustomer)
	req.Header.Set(IdempotencyKeyHeader, " checkout-1 ")
	rec := serve("POST /api/orders", h.Create, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/orders/33333333-3333-3333-3333-333333333333", rec.Header().Get("Location"))

	require.Len(t, got.Cart, 1)
	assert.Equal(t, int32(2), got.Cart[0].Quantity)
	assert.Equal(t, "Helena", got.Shipping.City)
	assert.Nil(t, got.Payment)
	require.NotNil(t, got.ExpectedTotal)
	assert.True(t, got.ExpectedTotal.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, "checkout-1", got.IdempotencyKey)

	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.FulfillmentPending, order.FulfillmentStatus)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("25.50")))
}

func TestOrderHandler_CreateRetriesConflicts(t *testing.T) {
	calls := 0
	svc := &fakeOrderService{
		createOrder: func(context.Context, *domain.Principal, service.CreateOrderParams) (*domain.Order, error) {
			calls++
			if calls == 1 {
				return nil, domain.ErrSerializationFailure
			}
			return testOrder(), nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	rec := serve("POST /api/orders", h.Create, newRequest(http.MethodPost, "/api/orders", createBody, testCustomer))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, calls)
}

func TestOrderHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"cart": [`, nil, http.StatusBadRequest, domain.EINVALID},
		{"empty body", ``, nil, http.StatusBadRequest, domain.EINVALID},
		{"insufficient stock", createBody, domain.NewInsufficientStock(domain.EINVALID, "order.create", uuid.New(), 2, 1), http.StatusBadRequest, domain.EINVALID},
		{"lost the race", createBody, domain.NewInsufficientStock(domain.ECONFLICT, "order.create", uuid.New(), 2, 0), http.StatusConflict, domain.ECONFLICT},
		{"not a customer", createBody, domain.ErrNotCustomer, http.StatusForbidden, domain.EFORBIDDEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeOrderService{
				createOrder: func(context.Context, *domain.Principal, service.CreateOrderParams) (*domain.Order, error) {
					return nil, tt.err
				},
			}
			h := NewOrderHandler(svc, RetryPolicy{}, nil)

			rec := serve("POST /api/orders", h.Create, newRequest(http.MethodPost, "/api/orders", tt.body, testCustomer))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestOrderHandler_Preview(t *testing.T) {
	svc := &fakeOrderService{
		previewCart: func(_ context.Context, _ *domain.Principal, cart domain.Cart) (*domain.ValidatedCart, error) {
			require.Len(t, cart, 1)
			return &domain.ValidatedCart{
				Lines: []domain.ValidatedLine{{ProductID: cart[0].ProductID, Quantity: cart[0].Quantity, UnitPrice: decimal.RequireFromString("12.75")}},
				Total: decimal.RequireFromString("25.50"),
			}, nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	body := `{"cart": [{"product_id": "44444444-4444-4444-4444-444444444444", "quantity": 2}]}`
	rec := serve("POST /api/cart/preview", h.Preview, newRequest(http.MethodPost, "/api/cart/preview", body, testCustomer))

	require.Equal(t, http.StatusOK, rec.Code)
	var cart domain.ValidatedCart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("25.50")))
}

func TestOrderHandler_List(t *testing.T) {
	var got domain.OrderFilter
	svc := &fakeOrderService{
		listOrders: func(_ context.Context, _ *domain.Principal, filter domain.OrderFilter) ([]*domain.Order, error) {
			got = filter
			return nil, nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	target := "/api/orders?fulfillment_status=shipped&payment_status=paid&customer_id=11111111-1111-1111-1111-111111111111&created_from=2025-01-01&limit=10&offset=20"
	rec := serve("GET /api/orders", h.List, newRequest(http.MethodGet, target, "", testStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.FulfillmentStatus)
	assert.Equal(t, domain.FulfillmentShipped, *got.FulfillmentStatus)
	require.NotNil(t, got.PaymentStatus)
	assert.Equal(t, domain.PaymentPaid, *got.PaymentStatus)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, testCustomer.ID, *got.CustomerID)
	require.NotNil(t, got.CreatedFrom)
	assert.Nil(t, got.CreatedTo)
	assert.Equal(t, int32(10), got.Limit)
	assert.Equal(t, int32(20), got.Offset)

	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Orders)
	assert.Empty(t, resp.Orders)
	assert.Equal(t, int32(10), resp.Limit)
}

func TestOrderHandler_ListInvalidQuery(t *testing.T) {
	h := NewOrderHandler(&fakeOrderService{}, testRetry, nil)

	target := "/api/orders?fulfillment_status=lost&customer_id=nope&limit=-1"
	rec := serve("GET /api/orders", h.List, newRequest(http.MethodGet, target, "", testStaff))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeError(t, rec)
	assert.Contains(t, detail.Fields, "fulfillment_status")
	assert.Contains(t, detail.Fields, "customer_id")
	assert.Contains(t, detail.Fields, "limit")
}

func TestOrderHandler_Get(t *testing.T) {
	svc := &fakeOrderService{
		getOrder: func(_ context.Context, _ *domain.Principal, id uuid.UUID) (*domain.Order, error) {
			if id == testOrder().ID {
				return testOrder(), nil
			}
			return nil, domain.ErrOrderNotFound
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/api/orders/33333333-3333-3333-3333-333333333333", http.StatusOK},
		{"missing", "/api/orders/55555555-5555-5555-5555-555555555555", http.StatusNotFound},
		{"bad id", "/api/orders/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve("GET /api/orders/{id}", h.Get, newRequest(http.MethodGet, tt.path, "", testCustomer))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOrderHandler_History(t *testing.T) {
	svc := &fakeOrderService{
		orderHistory: func(context.Context, *domain.Principal, uuid.UUID) ([]domain.OrderEvent, error) {
			return []domain.OrderEvent{{Kind: domain.EventOrderCreated}}, nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	rec := serve("GET /api/orders/{id}/history", h.History,
		newRequest(http.MethodGet, "/api/orders/33333333-3333-3333-3333-333333333333/history", "", testStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testOrder().ID, resp.OrderID)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventOrderCreated, resp.Events[0].Kind)
}

func TestOrderHandler_Fulfillment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"shipped", `{"status": "shipped"}`, nil, http.StatusOK},
		{"unknown status", `{"status": "lost"}`, nil, http.StatusBadRequest},
		{"terminal", `{"status": "shipped"}`, domain.NewInvalidTransition("order.transition_fulfillment", domain.AxisFulfillment, "delivered", "shipped"), http.StatusUnprocessableEntity},
		{"staff only", `{"status": "shipped"}`, domain.ErrStaffOnly, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeOrderService{
				transitionFulfillment: func(_ context.Context, _ *domain.Principal, _ uuid.UUID, to domain.FulfillmentStatus) (*domain.Order, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					o := testOrder()
					o.FulfillmentStatus = to
					return o, nil
				},
			}
			h := NewOrderHandler(svc, testRetry, nil)

			rec := serve("POST /api/orders/{id}/fulfillment", h.Fulfillment,
				newRequest(http.MethodPost, "/api/orders/33333333-3333-3333-3333-333333333333/fulfillment", tt.body, testStaff))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestOrderHandler_Payment(t *testing.T) {
	var got domain.PaymentStatus
	svc := &fakeOrderService{
		transitionPayment: func(_ context.Context, _ *domain.Principal, _ uuid.UUID, to domain.PaymentStatus) (*domain.Order, error) {
			got = to
			o := testOrder()
			o.PaymentStatus = to
			return o, nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)

	rec := serve("POST /api/orders/{id}/payment", h.Payment,
		newRequest(http.MethodPost, "/api/orders/33333333-3333-3333-3333-333333333333/payment", `{"status": "refunded"}`, testStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaymentRefunded, got)
}

func TestOrderHandler_DueDate(t *testing.T) {
	var got time.Time
	svc := &fakeOrderService{
		updateDueDate: func(_ context.Context, _ *domain.Principal, _ uuid.UUID, due time.Time) (*domain.Order, error) {
			got = due
			o := testOrder()
			o.DueDate = due
			return o, nil
		},
	}
	h := NewOrderHandler(svc, testRetry, nil)
	path := "/api/orders/33333333-3333-3333-3333-333333333333/due-date"

	rec := serve("PUT /api/orders/{id}/due-date", h.DueDate, newRequest(http.MethodPut, path, `{"due_date": "2025-04-01"}`, testStaff))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	rec = serve("PUT /api/orders/{id}/due-date", h.DueDate, newRequest(http.MethodPut, path, `{"due_date": ""}`, testStaff))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "due_date")
}

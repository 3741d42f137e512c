package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/dukerupert/orderdesk/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDueAfter is how long after creation an order falls due when the
// service is not configured otherwise.
const DefaultDueAfter = 7 * 24 * time.Hour

const maxIdempotencyKeyLen = 255

// OrderService provides business logic for the order lifecycle
type OrderService interface {
	// CreateOrder validates the cart against the catalog, binds the payment
	// result and persists the order with its items, shipping address and
	// stock decrements in a single transaction. Only customers may call it.
	// An error means nothing was written.
	CreateOrder(ctx context.Context, p *domain.Principal, params CreateOrderParams) (*domain.Order, error)

	// PreviewCart prices a cart against the current catalog without writing
	// anything. CreateOrder validates again inside its transaction.
	PreviewCart(ctx context.Context, p *domain.Principal, cart domain.Cart) (*domain.ValidatedCart, error)

	// GetOrder retrieves a single order. Customers only see their own orders.
	GetOrder(ctx context.Context, p *domain.Principal, id uuid.UUID) (*domain.Order, error)

	// ListOrders returns orders newest first. Customers are always scoped to
	// their own orders.
	ListOrders(ctx context.Context, p *domain.Principal, filter domain.OrderFilter) ([]*domain.Order, error)

	// TransitionFulfillment moves the fulfillment status. Staff only.
	TransitionFulfillment(ctx context.Context, p *domain.Principal, id uuid.UUID, to domain.FulfillmentStatus) (*domain.Order, error)

	// TransitionPayment moves the payment status. Staff only.
	TransitionPayment(ctx context.Context, p *domain.Principal, id uuid.UUID, to domain.PaymentStatus) (*domain.Order, error)

	// UpdateDueDate moves the due date. Staff only.
	UpdateDueDate(ctx context.Context, p *domain.Principal, id uuid.UUID, due time.Time) (*domain.Order, error)

	// OrderHistory returns the audit trail of an order, oldest first.
	OrderHistory(ctx context.Context, p *domain.Principal, id uuid.UUID) ([]domain.OrderEvent, error)
}

// CreateOrderParams is the input of CreateOrder.
type CreateOrderParams struct {
	Cart     domain.Cart
	Shipping domain.ShippingAddress

	// Payment is the verified gateway outcome of an online payment; nil for
	// cash on delivery.
	Payment *domain.PaymentResult

	// ExpectedTotal, when set, must equal the server-computed total.
	ExpectedTotal *decimal.Decimal

	// IdempotencyKey makes retries of the same checkout return the order the
	// first attempt created.
	IdempotencyKey string
}

// OrderServiceConfig tunes an OrderService.
type OrderServiceConfig struct {
	DueAfter time.Duration
	Now      func() time.Time
}

type orderService struct {
	store    Store
	notifier Notifier
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
	dueAfter time.Duration
	now      func() time.Time
}

// NewOrderService creates a new OrderService instance. notifier, metrics and
// logger may be nil.
func NewOrderService(store Store, notifier Notifier, metrics *telemetry.BusinessMetrics, logger *slog.Logger, cfg OrderServiceConfig) OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DueAfter <= 0 {
		cfg.DueAfter = DefaultDueAfter
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &orderService{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.With("service", "order"),
		dueAfter: cfg.DueAfter,
		now:      cfg.Now,
	}
}

// =============================================================================
// Checkout
// =============================================================================

// CreateOrder runs the whole checkout in one transaction:
//
//  1. read the catalog snapshot for every product in the cart
//  2. validate the cart against it and compute the total from catalog prices
//  3. bind the payment result (amount must equal the computed total)
//  4. decrement stock with "stock >= quantity" guards, in product id order
//  5. write shipping address, order, items and the order_created audit event
//
// The stock guard is re-evaluated at write time, so a checkout that lost a
// race for the same units fails with an insufficient_stock conflict even if
// its snapshot looked fine. The core never retries; callers may retry the
// whole call when domain.IsRetryable reports true.
func (s *orderService) CreateOrder(ctx context.Context, p *domain.Principal, params CreateOrderParams) (*domain.Order, error) {
	const op = "order.create"

	if p == nil {
		return nil, ErrNotAuthenticated
	}
	if !p.CanPlaceOrders() {
		return nil, ErrNotCustomer
	}

	online := params.Payment != nil
	s.metrics.ObserveCheckoutAttempt(online)

	order, replayed, err := s.createOrder(ctx, op, p, params)
	if err != nil {
		s.metrics.ObserveCheckoutFailed(domain.ErrorCode(err), domain.ErrorReason(err))
		s.logFailure(ctx, "order creation failed", err,
			"customer_id", p.ID,
			"lines", len(params.Cart),
			"online", online,
		)
		return nil, err
	}

	if replayed {
		s.logger.InfoContext(ctx, "returning order for repeated idempotency key",
			"order_id", order.ID,
			"customer_id", p.ID,
			"request_id", domain.RequestIDFromContext(ctx),
		)
		return order, nil
	}

	s.metrics.ObserveOrderCreated(online, order.Total, len(order.Items))
	telemetry.AddBreadcrumb("order", "order created", map[string]interface{}{
		"order_id": order.ID.String(),
	})
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total", order.Total.StringFixed(2),
		"lines", len(order.Items),
		"payment_mode", order.PaymentMode,
		"payment_status", order.PaymentStatus,
		"request_id", domain.RequestIDFromContext(ctx),
	)

	s.publish(ctx, jobs.EventTypeOrderCreated, order.ID, order.CreatedAt, jobs.OrderCreatedPayload{
		CustomerID:    order.CustomerID,
		Total:         order.Total,
		PaymentMode:   string(order.PaymentMode),
		PaymentStatus: string(order.PaymentStatus),
		Lines:         len(order.Items),
		DueDate:       order.DueDate,
		Contact:       contactOf(order),
	})

	return order, nil
}

func (s *orderService) createOrder(ctx context.Context, op string, p *domain.Principal, params CreateOrderParams) (*domain.Order, bool, error) {
	// Boundary validation. Nothing below runs for a malformed request.
	if err := checkCartLines(op, params.Cart); err != nil {
		return nil, false, err
	}
	if err := validateStruct(op, "shipping", params.Shipping); err != nil {
		return nil, false, err
	}
	if err := checkPaymentResult(op, params.Payment); err != nil {
		return nil, false, err
	}

	key := strings.TrimSpace(params.IdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		return nil, false, ErrIdempotencyKeySize
	}

	if key != "" {
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, repository.GetOrderByIdempotencyKeyParams{
			CustomerID:     p.ID,
			IdempotencyKey: &key,
		})
		switch {
		case err == nil:
			order, err := s.loadOrder(ctx, op, existing)
			return order, true, err
		case !repository.IsNoRows(err):
			return nil, false, persistenceError(s.store, err, op, "failed to check idempotency key")
		}
	}

	var idempotencyKey *string
	if key != "" {
		idempotencyKey = &key
	}

	cart := params.Cart.Normalize()
	now := s.now().UTC()

	var created *domain.Order
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		snapshot, err := ReadSnapshot(ctx, q, cart.ProductIDs())
		if err != nil {
			return fmt.Errorf("failed to read catalog snapshot: %w", err)
		}

		validated, err := ValidateCart(cart, snapshot, params.ExpectedTotal)
		if err != nil {
			return err
		}

		binding, err := BindPayment(params.Payment, validated.Total)
		if err != nil {
			return err
		}

		if err := decrementStock(ctx, q, op, validated.Lines, now); err != nil {
			return err
		}

		shipping, err := q.CreateShippingAddress(ctx, repository.CreateShippingAddressParams{
			ID:        uuid.New(),
			FirstName: strings.TrimSpace(params.Shipping.FirstName),
			LastName:  strings.TrimSpace(params.Shipping.LastName),
			Email:     strings.TrimSpace(params.Shipping.Email),
			Address:   strings.TrimSpace(params.Shipping.Address),
			City:      strings.TrimSpace(params.Shipping.City),
			Zip:       strings.TrimSpace(params.Shipping.Zip),
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to create shipping address: %w", err)
		}

		row, err := q.CreateOrder(ctx, repository.CreateOrderParams{
			ID:                uuid.New(),
			CustomerID:        p.ID,
			ShippingID:        shipping.ID,
			Total:             validated.Total,
			FulfillmentStatus: string(binding.FulfillmentStatus),
			PaymentStatus:     string(binding.PaymentStatus),
			PaymentMode:       string(binding.Mode),
			TransactionID:     binding.TransactionID,
			MerchantOrderID:   binding.MerchantOrderID,
			BankReferenceID:   binding.BankReferenceID,
			IdempotencyKey:    idempotencyKey,
			DueDate:           now.Add(s.dueAfter),
			CreatedAt:         now,
		})
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]repository.OrderItem, 0, len(validated.Lines))
		for i, line := range validated.Lines {
			item, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
				OrderID:         row.ID,
				Position:        int32(i),
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.UnitPrice,
			})
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, item)
		}

		if _, err := q.CreateOrderEvent(ctx, repository.CreateOrderEventParams{
			ID:        uuid.New(),
			OrderID:   row.ID,
			Kind:      string(domain.EventOrderCreated),
			ToValue:   strPtr(string(binding.FulfillmentStatus)),
			ActorID:   p.ID,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to record order event: %w", err)
		}

		created = toDomainOrder(row, items, &shipping)
		return nil
	})
	if err != nil {
		return nil, false, persistenceError(s.store, err, op, "failed to create order")
	}

	return created, false, nil
}

// decrementStock takes every line's units with a conditional update. Rows
// are touched in ascending product id order so concurrent checkouts lock
// shared products in the same order.
func decrementStock(ctx context.Context, q repository.Querier, op string, lines []domain.ValidatedLine, now time.Time) error {
	sorted := slices.Clone(lines)
	slices.SortFunc(sorted, func(a, b domain.ValidatedLine) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	for _, line := range sorted {
		n, err := q.DecrementProductStock(ctx, repository.DecrementProductStockParams{
			Quantity:  line.Quantity,
			ID:        line.ProductID,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if n == 0 {
			var available int32
			if product, err := q.GetProduct(ctx, line.ProductID); err == nil {
				available = product.Stock
			}
			return domain.NewInsufficientStock(domain.ECONFLICT, op, line.ProductID, line.Quantity, available)
		}
	}
	return nil
}

func (s *orderService) PreviewCart(ctx context.Context, p *domain.Principal, cart domain.Cart) (*domain.ValidatedCart, error) {
	const op = "order.preview_cart"

	if p == nil {
		return nil, ErrNotAuthenticated
	}
	if err := checkCartLines(op, cart); err != nil {
		return nil, err
	}

	cart = cart.Normalize()
	snapshot, err := ReadSnapshot(ctx, s.store, cart.ProductIDs())
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to read catalog snapshot")
	}

	return ValidateCart(cart, snapshot, nil)
}

// =============================================================================
// Reads
// =============================================================================

func (s *orderService) GetOrder(ctx context.Context, p *domain.Principal, id uuid.UUID) (*domain.Order, error) {
	const op = "order.get"

	row, err := s.visibleOrder(ctx, op, p, id)
	if err != nil {
		return nil, err
	}
	return s.loadOrder(ctx, op, row)
}

// visibleOrder fetches the order row if p may see it. Orders owned by other
// customers are reported as not found.
func (s *orderService) visibleOrder(ctx context.Context, op string, p *domain.Principal, id uuid.UUID) (repository.Order, error) {
	if p == nil {
		return repository.Order{}, ErrNotAuthenticated
	}

	row, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return repository.Order{}, ErrOrderNotFound
		}
		return repository.Order{}, persistenceError(s.store, err, op, "failed to get order")
	}

	if !p.IsStaff() && row.CustomerID != p.ID {
		return repository.Order{}, ErrOrderNotFound
	}
	return row, nil
}

// loadOrder attaches items and the shipping address to row and re-verifies
// the stored total.
func (s *orderService) loadOrder(ctx context.Context, op string, row repository.Order) (*domain.Order, error) {
	items, err := s.store.GetOrderItems(ctx, row.ID)
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to get order items")
	}

	shipping, err := s.store.GetShippingAddress(ctx, row.ShippingID)
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to get shipping address")
	}

	order := toDomainOrder(row, items, &shipping)
	if err := order.VerifyTotal(); err != nil {
		s.logger.ErrorContext(ctx, "stored order total does not match items",
			"order_id", order.ID,
			"error", err,
		)
		telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{
			"order_id": order.ID.String(),
		})
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, p *domain.Principal, filter domain.OrderFilter) ([]*domain.Order, error) {
	const op = "order.list"

	if p == nil {
		return nil, ErrNotAuthenticated
	}

	filter = filter.Normalize()
	if !p.IsStaff() {
		customerID := p.ID
		filter.CustomerID = &customerID
	}

	params := repository.ListOrdersParams{
		CustomerID:  filter.CustomerID,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	if filter.FulfillmentStatus != nil {
		if !filter.FulfillmentStatus.Valid() {
			return nil, domain.Errorf(domain.EINVALID, op, "unknown fulfillment status: %q", *filter.FulfillmentStatus)
		}
		params.FulfillmentStatus = strPtr(string(*filter.FulfillmentStatus))
	}
	if filter.PaymentStatus != nil {
		if !filter.PaymentStatus.Valid() {
			return nil, domain.Errorf(domain.EINVALID, op, "unknown payment status: %q", *filter.PaymentStatus)
		}
		params.PaymentStatus = strPtr(string(*filter.PaymentStatus))
	}

	rows, err := s.store.ListOrders(ctx, params)
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to list orders")
	}

	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		items, err := s.store.GetOrderItems(ctx, row.ID)
		if err != nil {
			return nil, persistenceError(s.store, err, op, "failed to get order items")
		}
		order := toDomainOrder(row, items, nil)
		if err := order.VerifyTotal(); err != nil {
			s.logger.ErrorContext(ctx, "stored order total does not match items",
				"order_id", order.ID,
				"error", err,
			)
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (s *orderService) OrderHistory(ctx context.Context, p *domain.Principal, id uuid.UUID) ([]domain.OrderEvent, error) {
	const op = "order.history"

	if _, err := s.visibleOrder(ctx, op, p, id); err != nil {
		return nil, err
	}

	rows, err := s.store.ListOrderEvents(ctx, id)
	if err != nil {
		return nil, persistenceError(s.store, err, op, "failed to list order events")
	}

	events := make([]domain.OrderEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, toDomainEvent(row))
	}
	return events, nil
}

// =============================================================================
// Status machine
// =============================================================================

// statusChange describes one axis of the status machine for applyTransition.
type statusChange struct {
	axis      domain.StatusAxis
	to        string
	current   func(o repository.Order) string
	allowed   func(from string) bool
	update    func(ctx context.Context, q repository.Querier, id uuid.UUID, from string, at time.Time) (repository.Order, error)
	eventKind domain.OrderEventKind
	eventType string
}

func (s *orderService) TransitionFulfillment(ctx context.Context, p *domain.Principal, id uuid.UUID, to domain.FulfillmentStatus) (*domain.Order, error) {
	const op = "order.transition_fulfillment"

	if !to.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "unknown fulfillment status: %q", to)
	}

	return s.applyTransition(ctx, op, p, id, statusChange{
		axis:    domain.AxisFulfillment,
		to:      string(to),
		current: func(o repository.Order) string { return o.FulfillmentStatus },
		allowed: func(from string) bool {
			return domain.FulfillmentStatus(from).CanTransitionTo(to)
		},
		update: func(ctx context.Context, q repository.Querier, id uuid.UUID, from string, at time.Time) (repository.Order, error) {
			return q.UpdateOrderFulfillmentStatus(ctx, repository.UpdateOrderFulfillmentStatusParams{
				ToStatus:   string(to),
				UpdatedAt:  at,
				ID:         id,
				FromStatus: from,
			})
		},
		eventKind: domain.EventFulfillmentChanged,
		eventType: jobs.EventTypeFulfillmentChanged,
	})
}

func (s *orderService) TransitionPayment(ctx context.Context, p *domain.Principal, id uuid.UUID, to domain.PaymentStatus) (*domain.Order, error) {
	const op = "order.transition_payment"

	if !to.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "unknown payment status: %q", to)
	}

	return s.applyTransition(ctx, op, p, id, statusChange{
		axis:    domain.AxisPayment,
		to:      string(to),
		current: func(o repository.Order) string { return o.PaymentStatus },
		allowed: func(from string) bool {
			return domain.PaymentStatus(from).CanTransitionTo(to)
		},
		update: func(ctx context.Context, q repository.Querier, id uuid.UUID, from string, at time.Time) (repository.Order, error) {
			return q.UpdateOrderPaymentStatus(ctx, repository.UpdateOrderPaymentStatusParams{
				ToStatus:   string(to),
				UpdatedAt:  at,
				ID:         id,
				FromStatus: from,
			})
		},
		eventKind: domain.EventPaymentChanged,
		eventType: jobs.EventTypePaymentChanged,
	})
}

// applyTransition is a read-modify-write on one order: lock the row, check
// the table against the stored status, compare-and-swap the new status and
// record the audit event, all in one transaction.
func (s *orderService) applyTransition(ctx context.Context, op string, p *domain.Principal, id uuid.UUID, change statusChange) (*domain.Order, error) {
	if p == nil {
		return nil, ErrNotAuthenticated
	}
	if !p.IsStaff() {
		return nil, ErrStaffOnly
	}

	now := s.now().UTC()

	var (
		from     string
		updated  repository.Order
		items    []repository.OrderItem
		shipping repository.ShippingAddress
	)
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		current, err := q.GetOrderForUpdate(ctx, id)
		if err != nil {
			if repository.IsNoRows(err) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		from = change.current(current)
		if !change.allowed(from) {
			return domain.NewInvalidTransition(op, change.axis, from, change.to)
		}

		updated, err = change.update(ctx, q, id, from, now)
		if err != nil {
			if repository.IsNoRows(err) {
				// The stored status moved after the row was read.
				return ErrConcurrentUpdate
			}
			return fmt.Errorf("failed to update %s status: %w", change.axis, err)
		}

		if _, err := q.CreateOrderEvent(ctx, repository.CreateOrderEventParams{
			ID:        uuid.New(),
			OrderID:   id,
			Kind:      string(change.eventKind),
			FromValue: strPtr(from),
			ToValue:   strPtr(change.to),
			ActorID:   p.ID,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to record order event: %w", err)
		}

		items, err = q.GetOrderItems(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get order items: %w", err)
		}
		shipping, err = q.GetShippingAddress(ctx, updated.ShippingID)
		if err != nil {
			return fmt.Errorf("failed to get shipping address: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.metrics.ObserveTransitionRejected(string(change.axis))
		}
		s.logFailure(ctx, "status transition failed", err,
			"order_id", id,
			"axis", change.axis,
			"to", change.to,
		)
		return nil, persistenceError(s.store, err, op, "failed to update order status")
	}

	order := toDomainOrder(updated, items, &shipping)
	contact := contactOf(order)

	s.metrics.ObserveTransition(string(change.axis), from, change.to, order.Total)
	s.logger.InfoContext(ctx, "order status changed",
		"order_id", order.ID,
		"axis", change.axis,
		"from", from,
		"to", change.to,
		"actor_id", p.ID,
		"request_id", domain.RequestIDFromContext(ctx),
	)

	s.publish(ctx, change.eventType, order.ID, now, jobs.StatusChangedPayload{
		From:    from,
		To:      change.to,
		ActorID: p.ID,
		Contact: &contact,
	})

	return order, nil
}

func (s *orderService) UpdateDueDate(ctx context.Context, p *domain.Principal, id uuid.UUID, due time.Time) (*domain.Order, error) {
	const op = "order.update_due_date"

	if p == nil {
		return nil, ErrNotAuthenticated
	}
	if !p.IsStaff() {
		return nil, ErrStaffOnly
	}
	if due.IsZero() {
		return nil, ErrDueDateRequired
	}

	due = due.UTC()
	now := s.now().UTC()

	var (
		previous time.Time
		updated  repository.Order
		items    []repository.OrderItem
	)
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		current, err := q.GetOrderForUpdate(ctx, id)
		if err != nil {
			if repository.IsNoRows(err) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}
		if due.Before(current.CreatedAt) {
			return ErrDueBeforeCreation
		}
		previous = current.DueDate.UTC()

		updated, err = q.UpdateOrderDueDate(ctx, repository.UpdateOrderDueDateParams{
			DueDate:   due,
			UpdatedAt: now,
			ID:        id,
		})
		if err != nil {
			return fmt.Errorf("failed to update due date: %w", err)
		}

		if _, err := q.CreateOrderEvent(ctx, repository.CreateOrderEventParams{
			ID:        uuid.New(),
			OrderID:   id,
			Kind:      string(domain.EventDueDateChanged),
			FromValue: strPtr(previous.Format(time.RFC3339)),
			ToValue:   strPtr(due.Format(time.RFC3339)),
			ActorID:   p.ID,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to record order event: %w", err)
		}

		items, err = q.GetOrderItems(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get order items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "due date update failed", err, "order_id", id)
		return nil, persistenceError(s.store, err, op, "failed to update due date")
	}

	order := toDomainOrder(updated, items, nil)

	s.logger.InfoContext(ctx, "order due date changed",
		"order_id", order.ID,
		"from", previous,
		"to", due,
		"actor_id", p.ID,
	)
	s.publish(ctx, jobs.EventTypeDueDateChanged, order.ID, now, jobs.DueDateChangedPayload{
		From:    previous,
		To:      due,
		ActorID: p.ID,
	})

	return order, nil
}

// =============================================================================
// Helpers
// =============================================================================

// publish hands an event to the notifier. Failures here never affect the
// committed order.
func (s *orderService) publish(ctx context.Context, eventType string, orderID uuid.UUID, at time.Time, payload interface{}) {
	e, err := jobs.NewEvent(eventType, orderID, at, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build order event",
			"event_type", eventType,
			"order_id", orderID,
			"error", err,
		)
		return
	}
	e.RequestID = domain.RequestIDFromContext(ctx)
	s.notifier.Notify(e)
}

// logFailure logs expected rejections at info and infrastructure failures at
// error level.
func (s *orderService) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args,
		"error", err,
		"code", domain.ErrorCode(err),
		"reason", domain.ErrorReason(err),
		"request_id", domain.RequestIDFromContext(ctx),
	)
	switch domain.ErrorCode(err) {
	case domain.EINTERNAL, domain.EUNAVAILABLE:
		s.logger.ErrorContext(ctx, msg, args...)
		telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{"op": domain.ErrorOp(err)})
	default:
		s.logger.InfoContext(ctx, msg, args...)
	}
}

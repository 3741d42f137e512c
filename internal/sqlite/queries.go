package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Queries implements repository.Querier on database/sql.
type Queries struct {
	db dbtx
}

var _ repository.Querier = (*Queries)(nil)

func (q *Queries) withTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

// noRows maps database/sql's sentinel onto the repository one.
func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNoRows
	}
	return err
}

// =============================================================================
// Products
// =============================================================================

const productColumns = `id, name, price, stock, created_at, updated_at`

func scanProduct(row scanner) (repository.Product, error) {
	var (
		p                repository.Product
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &created, &updated); err != nil {
		return repository.Product{}, noRows(err)
	}
	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return repository.Product{}, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return repository.Product{}, err
	}
	return p, nil
}

func (q *Queries) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	at := formatTime(arg.CreatedAt)
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO products (id, name, price, stock, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING `+productColumns,
		arg.ID.String(), arg.Name, arg.Price.String(), arg.Stock, at, at,
	)
	return scanProduct(row)
}

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (repository.Product, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id.String())
	return scanProduct(row)
}

func (q *Queries) GetProductSnapshots(ctx context.Context, ids []uuid.UUID) ([]repository.Product, error) {
	items := []repository.Product{}
	if len(ids) == 0 {
		return items, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id IN (`+strings.Join(placeholders, ", ")+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (q *Queries) DecrementProductStock(ctx context.Context, arg repository.DecrementProductStockParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE products
SET stock = stock - ?1,
    updated_at = ?3
WHERE id = ?2
  AND stock >= ?1`,
		arg.Quantity, arg.ID.String(), formatTime(arg.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// =============================================================================
// Shipping addresses
// =============================================================================

const shippingColumns = `id, first_name, last_name, email, address, city, zip, created_at`

func scanShippingAddress(row scanner) (repository.ShippingAddress, error) {
	var (
		a       repository.ShippingAddress
		created string
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Address, &a.City, &a.Zip, &created); err != nil {
		return repository.ShippingAddress{}, noRows(err)
	}
	var err error
	if a.CreatedAt, err = parseTime(created); err != nil {
		return repository.ShippingAddress{}, err
	}
	return a, nil
}

func (q *Queries) CreateShippingAddress(ctx context.Context, arg repository.CreateShippingAddressParams) (repository.ShippingAddress, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO shipping_addresses (id, first_name, last_name, email, address, city, zip, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+shippingColumns,
		arg.ID.String(), arg.FirstName, arg.LastName, arg.Email, arg.Address, arg.City, arg.Zip, formatTime(arg.CreatedAt),
	)
	return scanShippingAddress(row)
}

func (q *Queries) GetShippingAddress(ctx context.Context, id uuid.UUID) (repository.ShippingAddress, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+shippingColumns+` FROM shipping_addresses WHERE id = ?`, id.String())
	return scanShippingAddress(row)
}

// =============================================================================
// Orders
// =============================================================================

const orderColumns = `id, customer_id, shipping_id, total, fulfillment_status, payment_status, payment_mode,
    transaction_id, merchant_order_id, bank_reference_id, idempotency_key, due_date, created_at, updated_at`

func scanOrder(row scanner) (repository.Order, error) {
	var (
		o                     repository.Order
		due, created, updated string
	)
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.ShippingID,
		&o.Total,
		&o.FulfillmentStatus,
		&o.PaymentStatus,
		&o.PaymentMode,
		&o.TransactionID,
		&o.MerchantOrderID,
		&o.BankReferenceID,
		&o.IdempotencyKey,
		&due,
		&created,
		&updated,
	)
	if err != nil {
		return repository.Order{}, noRows(err)
	}
	if o.DueDate, err = parseTime(due); err != nil {
		return repository.Order{}, err
	}
	if o.CreatedAt, err = parseTime(created); err != nil {
		return repository.Order{}, err
	}
	if o.UpdatedAt, err = parseTime(updated); err != nil {
		return repository.Order{}, err
	}
	return o, nil
}

func collectOrders(rows *sql.Rows) ([]repository.Order, error) {
	defer rows.Close()
	items := []repository.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

func (q *Queries) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	at := formatTime(arg.CreatedAt)
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO orders (
    id, customer_id, shipping_id, total,
    fulfillment_status, payment_status, payment_mode,
    transaction_id, merchant_order_id, bank_reference_id,
    idempotency_key, due_date, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+orderColumns,
		arg.ID.String(),
		arg.CustomerID.String(),
		arg.ShippingID.String(),
		arg.Total.String(),
		arg.FulfillmentStatus,
		arg.PaymentStatus,
		arg.PaymentMode,
		nullableString(arg.TransactionID),
		nullableString(arg.MerchantOrderID),
		nullableString(arg.BankReferenceID),
		nullableString(arg.IdempotencyKey),
		formatTime(arg.DueDate),
		at,
		at,
	)
	return scanOrder(row)
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id.String())
	return scanOrder(row)
}

// GetOrderForUpdate is a plain read: IMMEDIATE transactions already hold the
// database write lock.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	return q.GetOrder(ctx, id)
}

func (q *Queries) GetOrderByIdempotencyKey(ctx context.Context, arg repository.GetOrderByIdempotencyKeyParams) (repository.Order, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = ? AND idempotency_key = ?`,
		arg.CustomerID.String(), nullableString(arg.IdempotencyKey),
	)
	return scanOrder(row)
}

func (q *Queries) ListOrders(ctx context.Context, arg repository.ListOrdersParams) ([]repository.Order, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+orderColumns+`
FROM orders
WHERE (?1 IS NULL OR customer_id = ?1)
  AND (?2 IS NULL OR fulfillment_status = ?2)
  AND (?3 IS NULL OR payment_status = ?3)
  AND (?4 IS NULL OR created_at >= ?4)
  AND (?5 IS NULL OR created_at < ?5)
ORDER BY created_at DESC, id DESC
LIMIT ?6 OFFSET ?7`,
		nullableUUID(arg.CustomerID),
		nullableString(arg.FulfillmentStatus),
		nullableString(arg.PaymentStatus),
		nullableTime(arg.CreatedFrom),
		nullableTime(arg.CreatedTo),
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (q *Queries) UpdateOrderFulfillmentStatus(ctx context.Context, arg repository.UpdateOrderFulfillmentStatusParams) (repository.Order, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE orders
SET fulfillment_status = ?, updated_at = ?
WHERE id = ? AND fulfillment_status = ?
RETURNING `+orderColumns,
		arg.ToStatus, formatTime(arg.UpdatedAt), arg.ID.String(), arg.FromStatus,
	)
	return scanOrder(row)
}

func (q *Queries) UpdateOrderPaymentStatus(ctx context.Context, arg repository.UpdateOrderPaymentStatusParams) (repository.Order, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE orders
SET payment_status = ?, updated_at = ?
WHERE id = ? AND payment_status = ?
RETURNING `+orderColumns,
		arg.ToStatus, formatTime(arg.UpdatedAt), arg.ID.String(), arg.FromStatus,
	)
	return scanOrder(row)
}

func (q *Queries) UpdateOrderDueDate(ctx context.Context, arg repository.UpdateOrderDueDateParams) (repository.Order, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE orders
SET due_date = ?, updated_at = ?
WHERE id = ?
RETURNING `+orderColumns,
		formatTime(arg.DueDate), formatTime(arg.UpdatedAt), arg.ID.String(),
	)
	return scanOrder(row)
}

// =============================================================================
// Order items
// =============================================================================

const orderItemColumns = `order_id, position, product_id, quantity, price_at_purchase`

func scanOrderItem(row scanner) (repository.OrderItem, error) {
	var i repository.OrderItem
	if err := row.Scan(&i.OrderID, &i.Position, &i.ProductID, &i.Quantity, &i.PriceAtPurchase); err != nil {
		return repository.OrderItem{}, noRows(err)
	}
	return i, nil
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO order_items (order_id, position, product_id, quantity, price_at_purchase)
VALUES (?, ?, ?, ?, ?)
RETURNING `+orderItemColumns,
		arg.OrderID.String(), arg.Position, arg.ProductID.String(), arg.Quantity, arg.PriceAtPurchase.String(),
	)
	return scanOrderItem(row)
}

func (q *Queries) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]repository.OrderItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ? ORDER BY position`,
		orderID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []repository.OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// =============================================================================
// Order events
// =============================================================================

const orderEventColumns = `id, order_id, kind, from_value, to_value, actor_id, created_at`

func scanOrderEvent(row scanner) (repository.OrderEvent, error) {
	var (
		e       repository.OrderEvent
		created string
	)
	if err := row.Scan(&e.ID, &e.OrderID, &e.Kind, &e.FromValue, &e.ToValue, &e.ActorID, &created); err != nil {
		return repository.OrderEvent{}, noRows(err)
	}
	var err error
	if e.CreatedAt, err = parseTime(created); err != nil {
		return repository.OrderEvent{}, err
	}
	return e, nil
}

func (q *Queries) CreateOrderEvent(ctx context.Context, arg repository.CreateOrderEventParams) (repository.OrderEvent, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO order_events (id, order_id, kind, from_value, to_value, actor_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING `+orderEventColumns,
		arg.ID.String(),
		arg.OrderID.String(),
		arg.Kind,
		nullableString(arg.FromValue),
		nullableString(arg.ToValue),
		arg.ActorID.String(),
		formatTime(arg.CreatedAt),
	)
	return scanOrderEvent(row)
}

func (q *Queries) ListOrderEvents(ctx context.Context, orderID uuid.UUID) ([]repository.OrderEvent, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+orderEventColumns+` FROM order_events WHERE order_id = ? ORDER BY created_at, id`,
		orderID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []repository.OrderEvent{}
	for rows.Next() {
		e, err := scanOrderEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// =============================================================================
// Reports
// =============================================================================

func (q *Queries) CountOrdersByStatus(ctx context.Context, arg repository.CountOrdersByStatusParams) ([]repository.CountOrdersByStatusRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT fulfillment_status, payment_status, COUNT(*) AS orders
FROM orders
WHERE created_at >= ? AND created_at < ?
GROUP BY fulfillment_status, payment_status
ORDER BY fulfillment_status, payment_status`,
		formatTime(arg.CreatedFrom), formatTime(arg.CreatedTo),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []repository.CountOrdersByStatusRow{}
	for rows.Next() {
		var i repository.CountOrdersByStatusRow
		if err := rows.Scan(&i.FulfillmentStatus, &i.PaymentStatus, &i.Orders); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// GetRevenueByDay sums totals in Go: SQLite's SUM over TEXT would go through
// floating point.
func (q *Queries) GetRevenueByDay(ctx context.Context, arg repository.GetRevenueByDayParams) ([]repository.GetRevenueByDayRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT substr(created_at, 1, 10) AS day, total
FROM orders
WHERE created_at >= ? AND created_at < ?
  AND payment_status = 'paid'
  AND fulfillment_status <> 'cancelled'`,
		formatTime(arg.CreatedFrom), formatTime(arg.CreatedTo),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]*repository.GetRevenueByDayRow)
	for rows.Next() {
		var (
			day   string
			total decimal.Decimal
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		row, ok := byDay[day]
		if !ok {
			row = &repository.GetRevenueByDayRow{Day: day, Revenue: decimal.Zero}
			byDay[day] = row
		}
		row.Revenue = row.Revenue.Add(total)
		row.Orders++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]repository.GetRevenueByDayRow, 0, len(byDay))
	for _, row := range byDay {
		items = append(items, *row)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Day < items[j].Day })
	return items, nil
}

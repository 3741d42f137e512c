package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrEmptyCart            = &Error{Code: EINVALID, Reason: ReasonEmptyCart, Message: "Cart is empty"}
	ErrInvalidQuantity      = &Error{Code: EINVALID, Reason: ReasonInvalidQuantity, Message: "Quantity must be greater than 0"}
	ErrProductNotFound      = &Error{Code: EINVALID, Reason: ReasonProductNotFound, Message: "Product not found"}
	ErrInsufficientStock    = &Error{Code: EINVALID, Reason: ReasonInsufficientStock, Message: "Insufficient stock for one or more items"}
	ErrAmountMismatch       = &Error{Code: EINVALID, Reason: ReasonAmountMismatch, Message: "Paid amount does not match order total"}
	ErrSerializationFailure = &Error{Code: ECONFLICT, Reason: ReasonSerializationFailure, Message: "Concurrent update detected, please retry"}
)

// CartLine is one client-proposed purchase line. UnitPriceAtAdd is advisory
// only; the authoritative price is re-read from the catalog at order time.
type CartLine struct {
	ProductID      uuid.UUID       `json:"product_id" validate:"required"`
	Quantity       int32           `json:"quantity" validate:"gte=1"`
	UnitPriceAtAdd decimal.Decimal `json:"unit_price_at_add"`
}

// Cart is an ordered sequence of cart lines.
type Cart []CartLine

// Normalize returns a copy of the cart with duplicate product lines summed.
// The position of each product's first occurrence is preserved. Sums are
// capped at math.MaxInt32; callers reject such carts with QuantityOverflow
// before relying on the result.
func (c Cart) Normalize() Cart {
	out := make(Cart, 0, len(c))
	index := make(map[uuid.UUID]int, len(c))
	for _, line := range c {
		if i, ok := index[line.ProductID]; ok {
			out[i].Quantity = int32(min(int64(out[i].Quantity)+int64(line.Quantity), math.MaxInt32))
			continue
		}
		index[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out
}

// QuantityOverflow reports the index of the first line whose product's
// summed quantity does not fit in an int32.
func (c Cart) QuantityOverflow() (int, bool) {
	first := make(map[uuid.UUID]int, len(c))
	sums := make(map[uuid.UUID]int64, len(c))
	for i, line := range c {
		if _, ok := first[line.ProductID]; !ok {
			first[line.ProductID] = i
		}
		sums[line.ProductID] += int64(line.Quantity)
		if sums[line.ProductID] > math.MaxInt32 {
			return first[line.ProductID], true
		}
	}
	return 0, false
}

// ProductIDs returns the distinct product ids in first-occurrence order.
func (c Cart) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(c))
	ids := make([]uuid.UUID, 0, len(c))
	for _, line := range c {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// ProductSnapshot is the current catalog state of one product.
type ProductSnapshot struct {
	ID    uuid.UUID
	Price decimal.Decimal
	Stock int32
}

// CatalogSnapshot maps product ids to their current state. An id requested
// but absent from the map was not found.
type CatalogSnapshot map[uuid.UUID]ProductSnapshot

// ValidatedLine is a cart line priced from the catalog.
type ValidatedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal returns quantity times unit price.
func (l ValidatedLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// ValidatedCart is the authoritative, server-priced form of a cart.
type ValidatedCart struct {
	Lines []ValidatedLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// StockShortage names the product that could not be supplied.
type StockShortage struct {
	ProductID uuid.UUID
	Requested int32
	Available int32
}

func (s *StockShortage) Error() string {
	return fmt.Sprintf("product %s: requested %d, available %d", s.ProductID, s.Requested, s.Available)
}

// NewInsufficientStock reports a stock shortage. Code is EINVALID when the
// shortage is seen while validating against the snapshot and ECONFLICT when a
// concurrent checkout won the conditional decrement.
func NewInsufficientStock(code, op string, productID uuid.UUID, requested, available int32) error {
	detail := &StockShortage{ProductID: productID, Requested: requested, Available: available}
	msg := fmt.Sprintf("Insufficient stock for product %s", productID)
	if code == ECONFLICT {
		msg = fmt.Sprintf("Stock for product %s changed during checkout, please retry", productID)
	}
	return &Error{
		Code:    code,
		Reason:  ReasonInsufficientStock,
		Op:      op,
		Message: msg,
		Err:     detail,
	}
}

// NewProductNotFound reports a cart line referencing an unknown product.
func NewProductNotFound(op string, productID uuid.UUID) error {
	return &Error{
		Code:    EINVALID,
		Reason:  ReasonProductNotFound,
		Op:      op,
		Message: fmt.Sprintf("Product not found: %s", productID),
	}
}

// AmountMismatch records the externally reported amount next to the
// server-computed total.
type AmountMismatch struct {
	Expected decimal.Decimal
	Computed decimal.Decimal
}

func (m *AmountMismatch) Error() string {
	return fmt.Sprintf("expected %s, computed %s", m.Expected.StringFixed(2), m.Computed.StringFixed(2))
}

// NewAmountMismatch reports a total that differs from the server-computed one.
func NewAmountMismatch(op string, expected, computed decimal.Decimal) error {
	detail := &AmountMismatch{Expected: expected, Computed: computed}
	return &Error{
		Code:    EINVALID,
		Reason:  ReasonAmountMismatch,
		Op:      op,
		Message: fmt.Sprintf("Paid amount %s does not match order total %s", expected.StringFixed(2), computed.StringFixed(2)),
		Err:     detail,
	}
}

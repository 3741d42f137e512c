package service

import (
	"fmt"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// checkCartLines rejects carts that can never be valid regardless of the
// catalog: empty carts, non-positive or overflowing quantities and missing
// product ids.
func checkCartLines(op string, cart domain.Cart) error {
	if len(cart) == 0 {
		return domain.ErrEmptyCart
	}
	for i, line := range cart {
		if line.Quantity < 1 {
			return &domain.Error{
				Code:    domain.EINVALID,
				Reason:  domain.ReasonInvalidQuantity,
				Op:      op,
				Message: domain.ErrInvalidQuantity.Message,
				Err:     domain.NewValidationError(op, lineField(i, "quantity"), "must be at least 1"),
			}
		}
		if line.ProductID == uuid.Nil {
			return domain.NewValidationError(op, lineField(i, "product_id"), "is required")
		}
	}
	if i, overflow := cart.QuantityOverflow(); overflow {
		return &domain.Error{
			Code:    domain.EINVALID,
			Reason:  domain.ReasonInvalidQuantity,
			Op:      op,
			Message: "Combined quantity for a product is too large",
			Err:     domain.NewValidationError(op, lineField(i, "quantity"), "combined quantity is too large"),
		}
	}
	return nil
}

// ValidateCart checks cart against snapshot and prices it from the catalog.
// Client-supplied unit prices are ignored. When expected is non-nil the
// computed total must equal it exactly.
func ValidateCart(cart domain.Cart, snapshot domain.CatalogSnapshot, expected *decimal.Decimal) (*domain.ValidatedCart, error) {
	const op = "cart.validate"

	if err := checkCartLines(op, cart); err != nil {
		return nil, err
	}

	lines := cart.Normalize()
	validated := &domain.ValidatedCart{
		Lines: make([]domain.ValidatedLine, 0, len(lines)),
		Total: decimal.Zero,
	}

	for _, line := range lines {
		product, ok := snapshot[line.ProductID]
		if !ok {
			return nil, domain.NewProductNotFound(op, line.ProductID)
		}
		if line.Quantity > product.Stock {
			return nil, domain.NewInsufficientStock(domain.EINVALID, op, line.ProductID, line.Quantity, product.Stock)
		}

		vl := domain.ValidatedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		}
		validated.Lines = append(validated.Lines, vl)
		validated.Total = validated.Total.Add(vl.LineTotal())
	}

	if expected != nil && !expected.Equal(validated.Total) {
		return nil, domain.NewAmountMismatch(op, *expected, validated.Total)
	}

	return validated, nil
}

func lineField(i int, name string) string {
	return fmt.Sprintf("cart[%d].%s", i, name)
}

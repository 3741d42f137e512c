package service

import (
	"context"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/google/uuid"
)

// ReadSnapshot returns the current price and stock for ids as seen by q.
// Called with a transaction-bound Querier, the read shares the isolation
// context of the writes that follow it. Ids missing from the result were not
// found; that is reported by the cart validator, not here.
func ReadSnapshot(ctx context.Context, q repository.Querier, ids []uuid.UUID) (domain.CatalogSnapshot, error) {
	snapshot := make(domain.CatalogSnapshot, len(ids))
	if len(ids) == 0 {
		return snapshot, nil
	}

	products, err := q.GetProductSnapshots(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		snapshot[p.ID] = domain.ProductSnapshot{
			ID:    p.ID,
			Price: p.Price,
			Stock: p.Stock,
		}
	}
	return snapshot, nil
}

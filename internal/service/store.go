package service

import (
	"context"

	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/dukerupert/orderdesk/internal/repository"
)

// Store is the persistence boundary of the order core. Every mutation runs
// through ExecTx; plain reads may use the embedded Querier directly.
type Store interface {
	repository.Querier

	// ExecTx runs fn in one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise, so a failed ExecTx leaves no
	// trace. Driver errors come back classified as domain errors.
	ExecTx(ctx context.Context, fn func(q repository.Querier) error) error

	// Classify maps a driver error from a query run outside ExecTx into a
	// domain error. Nil, domain errors and repository.ErrNoRows pass
	// through unchanged.
	Classify(err error) error
}

// Notifier receives order events after their transaction commits. Notify
// must not block; delivery is best effort.
type Notifier interface {
	Notify(e jobs.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(jobs.Event) {}

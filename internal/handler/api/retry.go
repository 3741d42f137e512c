package api

import (
	"context"
	"errors"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/sethvargo/go-retry"
)

// RetryPolicy re-runs an operation that failed with a retryable domain error
// (a lost race or a transient storage failure). The order core itself never
// retries; this is the caller-side retry it expects.
type RetryPolicy struct {
	MaxRetries uint64
	Base       time.Duration
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// retry budget is spent. The last operation error is returned, never the
// context error, so callers always see a domain error.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	base := p.Base
	if base <= 0 {
		base = 50 * time.Millisecond
	}

	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithMaxRetries(p.MaxRetries, b)

	var last error
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		last = fn(ctx)
		if last != nil && domain.IsRetryable(last) {
			return retry.RetryableError(last)
		}
		return last
	})
	if err != nil && last != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return last
	}
	return err
}

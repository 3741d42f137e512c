// Package notify holds the publishers that deliver order events to
// downstream consumers.
package notify

import (
	"context"
	"log/slog"

	"github.com/dukerupert/orderdesk/internal/jobs"
)

// LogPublisher writes each event as a structured log line. It is the default
// backend for development and for deployments without a broker.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a log publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "notify")}
}

func (p *LogPublisher) Publish(ctx context.Context, e jobs.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "order event",
		"event_id", e.ID,
		"event_type", e.Type,
		"order_id", e.OrderID,
		"occurred_at", e.OccurredAt,
		"request_id", e.RequestID,
		"payload", string(e.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

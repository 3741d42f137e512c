package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/dukerupert/orderdesk/internal/telemetry"
)

// Publisher delivers one order event to a notification backend.
type Publisher interface {
	Publish(ctx context.Context, e jobs.Event) error
	Close() error
}

// Config holds dispatcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of events published concurrently
	MaxConcurrency int

	// Buffer is how many events may wait for a free publisher slot before
	// new events are dropped
	Buffer int

	// PublishTimeout bounds a single Publish call
	PublishTimeout time.Duration
}

// Dispatcher hands committed order events to a Publisher without making the
// caller wait. Notify never blocks; delivery failures are logged and counted
// and never reach the code that produced the event.
type Dispatcher struct {
	config    Config
	publisher Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger

	queue chan jobs.Event

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher. Call Start to begin publishing.
func NewDispatcher(publisher Publisher, config Config, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Dispatcher {
	// Set defaults
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Buffer <= 0 {
		config.Buffer = 256
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		config:    config,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With("component", "dispatcher"),
		queue:     make(chan jobs.Event, config.Buffer),
	}
}

// Notify queues e for publishing. It returns immediately; when the queue is
// full or the dispatcher has stopped, the event is dropped with a warning.
func (d *Dispatcher) Notify(e jobs.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(e, "dispatcher stopped")
		return
	}

	select {
	case d.queue <- e:
	default:
		d.drop(e, "queue full")
	}
}

// Start publishes queued events until ctx is cancelled, then publishes what
// is already queued and waits for in-flight deliveries before returning.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("dispatcher starting",
		"max_concurrency", d.config.MaxConcurrency,
		"buffer", d.config.Buffer,
		"publish_timeout", d.config.PublishTimeout,
	)

	// Semaphore for concurrency control
	sem := make(chan struct{}, d.config.MaxConcurrency)

	dispatch := func(e jobs.Event) {
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			d.publish(e)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			d.closed = true
			d.mu.Unlock()

			// Drain what was accepted before shutdown.
			for {
				select {
				case e := <-d.queue:
					dispatch(e)
					continue
				default:
				}
				break
			}

			// Wait for in-flight publishes by taking every slot.
			for i := 0; i < cap(sem); i++ {
				sem <- struct{}{}
			}

			d.logger.Info("dispatcher stopped")
			return nil

		case e := <-d.queue:
			dispatch(e)
		}
	}
}

// publish delivers e on a context detached from any request so that a
// finished HTTP call does not cancel its own notification.
func (d *Dispatcher) publish(e jobs.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.PublishTimeout)
	defer cancel()

	start := time.Now()
	err := d.publisher.Publish(ctx, e)
	d.metrics.ObservePublish(e.Type, time.Since(start).Seconds(), err)

	if err != nil {
		d.logger.Error("failed to publish order event",
			"event_id", e.ID,
			"event_type", e.Type,
			"order_id", e.OrderID,
			"request_id", e.RequestID,
			"error", err,
		)
		telemetry.CaptureError(err, map[string]interface{}{
			"event_type": e.Type,
			"order_id":   e.OrderID.String(),
		})
		return
	}

	d.logger.Debug("order event published",
		"event_id", e.ID,
		"event_type", e.Type,
		"order_id", e.OrderID,
	)
}

func (d *Dispatcher) drop(e jobs.Event, why string) {
	d.metrics.ObserveDropped(e.Type)
	d.logger.Warn("dropping order event",
		"reason", why,
		"event_type", e.Type,
		"order_id", e.OrderID,
	)
}

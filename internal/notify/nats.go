package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/nats-io/nats.go"
)

// NatsPublisher publishes each event on "<prefix>.<event type>", e.g.
// "orders.order.created".
type NatsPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNatsPublisher connects to url. The connection reconnects on its own;
// publishes made while disconnected are buffered by the client.
func NewNatsPublisher(url, prefix string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("orderdesk"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NatsPublisher{conn: conn, prefix: prefix}, nil
}

// Subject returns the subject an event type is published on.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func (p *NatsPublisher) Publish(ctx context.Context, e jobs.Event) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}

	msg := nats.NewMsg(Subject(p.prefix, e.Type))
	msg.Data = data
	msg.Header.Set("Nats-Msg-Id", e.ID.String())
	msg.Header.Set("Order-Id", e.OrderID.String())

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish %s: %w", e.Type, err)
	}
	// Flush so a failed server write surfaces here instead of being lost.
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush %s: %w", e.Type, err)
	}
	return nil
}

func (p *NatsPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

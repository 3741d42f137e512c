package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/orderdesk/internal/email"
	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestEvent(t *testing.T) jobs.Event {
	t.Helper()
	e, err := jobs.NewEvent(jobs.EventTypePaymentChanged, uuid.New(), time.Now(), jobs.StatusChangedPayload{
		From: "pending",
		To:   "paid",
	})
	require.NoError(t, err)
	return e
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	e := newTestEvent(t)

	require.NoError(t, p.Publish(context.Background(), e))

	out := buf.String()
	assert.Contains(t, out, `"event_type":"order.payment_changed"`)
	assert.Contains(t, out, e.OrderID.String())
}

func TestLogPublisher_CancelledContext(t *testing.T) {
	p := NewLogPublisher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Publish(ctx, newTestEvent(t)), context.Canceled)
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	e := newTestEvent(t)

	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, e.OrderID.String(), string(msg.Key))
	decoded, err := jobs.UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	cause := errors.New("leader not available")
	p := &KafkaPublisher{writer: &fakeWriter{err: cause}}

	err := p.Publish(context.Background(), newTestEvent(t))
	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.HasPrefix(err.Error(), "kafka publish"))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "orders.order.created", Subject("orders", jobs.EventTypeOrderCreated))
	assert.Equal(t, "order.created", Subject("", jobs.EventTypeOrderCreated))
}

func TestNew(t *testing.T) {
	p, err := New(Options{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	p, err = New(Options{Backend: BackendKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "orders"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)

	_, err = New(Options{Backend: BackendKafka}, nil)
	assert.Error(t, err)

	_, err = New(Options{Backend: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

func TestNew_WithEmail(t *testing.T) {
	p, err := New(Options{Email: &EmailOptions{Provider: EmailSMTP, SMTP: email.SMTPConfig{Host: "localhost", Port: 1025}, From: "orders@example.com"}}, nil)
	require.NoError(t, err)
	require.IsType(t, Fanout{}, p)
	assert.Len(t, p.(Fanout), 2)

	_, err = New(Options{Email: &EmailOptions{Provider: EmailPostmark}}, nil)
	assert.Error(t, err)

	_, err = New(Options{Email: &EmailOptions{Provider: "fax"}}, nil)
	assert.Error(t, err)
}

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(context.Context, jobs.Event) error {
	p.calls++
	return p.err
}

func (p *countingPublisher) Close() error { return nil }

func TestFanout(t *testing.T) {
	failing := &countingPublisher{err: errors.New("broker down")}
	ok := &countingPublisher{}

	err := Fanout{failing, ok}.Publish(context.Background(), newTestEvent(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
	assert.NoError(t, Fanout{failing, ok}.Close())
}

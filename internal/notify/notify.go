package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/orderdesk/internal/email"
	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/dukerupert/orderdesk/internal/worker"
)

// Backend names accepted by New.
const (
	BackendLog   = "log"
	BackendKafka = "kafka"
	BackendNats  = "nats"
)

// Email providers accepted in EmailOptions.
const (
	EmailSMTP     = "smtp"
	EmailPostmark = "postmark"
)

// Options configures New.
type Options struct {
	Backend           string
	KafkaBrokers      []string
	KafkaTopic        string
	NatsURL           string
	NatsSubjectPrefix string

	// Email, when set, adds customer emails alongside the event backend.
	Email *EmailOptions
}

// EmailOptions selects and configures the customer email sender.
type EmailOptions struct {
	Provider      string
	SMTP          email.SMTPConfig
	PostmarkToken string
	From          string
	FromName      string
}

// New builds the publisher for opts.Backend, fanned out to the email
// publisher when opts.Email is set.
func New(opts Options, logger *slog.Logger) (worker.Publisher, error) {
	var primary worker.Publisher
	switch opts.Backend {
	case "", BackendLog:
		primary = NewLogPublisher(logger)
	case BackendKafka:
		if len(opts.KafkaBrokers) == 0 || opts.KafkaTopic == "" {
			return nil, fmt.Errorf("kafka backend needs brokers and a topic")
		}
		primary = NewKafkaPublisher(opts.KafkaBrokers, opts.KafkaTopic)
	case BackendNats:
		p, err := NewNatsPublisher(opts.NatsURL, opts.NatsSubjectPrefix)
		if err != nil {
			return nil, err
		}
		primary = p
	default:
		return nil, fmt.Errorf("unknown notification backend %q", opts.Backend)
	}

	if opts.Email == nil {
		return primary, nil
	}

	var sender email.Sender
	switch opts.Email.Provider {
	case EmailSMTP:
		sender = email.NewSMTPSender(opts.Email.SMTP, logger)
	case EmailPostmark:
		if opts.Email.PostmarkToken == "" {
			primary.Close()
			return nil, fmt.Errorf("postmark email needs an API token")
		}
		sender = email.NewPostmarkSender(opts.Email.PostmarkToken, "")
	default:
		primary.Close()
		return nil, fmt.Errorf("unknown email provider %q", opts.Email.Provider)
	}

	return Fanout{primary, email.NewPublisher(sender, opts.Email.From, opts.Email.FromName, logger)}, nil
}

// Fanout publishes every event to each publisher in turn. A failing
// publisher does not stop the others; their errors are joined.
type Fanout []worker.Publisher

func (f Fanout) Publish(ctx context.Context, e jobs.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

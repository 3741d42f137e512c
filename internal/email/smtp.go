package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string // optional
	Timeout  time.Duration
}

// SMTPSender implements Sender using go-mail. TLS mode follows the port:
// implicit TLS on 465, mandatory STARTTLS on 587, opportunistic otherwise.
type SMTPSender struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates a new SMTP email sender.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		config: config,
		logger: logger.With("sender", "smtp"),
	}
}

// Send sends an email via SMTP.
func (s *SMTPSender) Send(ctx context.Context, email *Email) (string, error) {
	msg, err := buildMessage(email)
	if err != nil {
		return "", err
	}

	client, err := mail.NewClient(s.config.Host, s.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("email sent", "to", email.To, "subject", email.Subject)

	// SMTP doesn't hand back a message ID reliably.
	return fmt.Sprintf("smtp-%d", time.Now().UnixNano()), nil
}

// buildMessage converts email into a MIME message, HTML with a text
// alternative when both bodies are set.
func buildMessage(email *Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(email.Subject)

	switch {
	case email.HTMLBody != "" && email.TextBody != "":
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
	}

	for key, value := range email.Headers {
		msg.SetGenHeader(mail.Header(key), value)
	}
	return msg, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTimeout(s.config.Timeout),
	}

	switch s.config.Port {
	case 465:
		opts = append(opts, mail.WithSSL())
	case 587:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		// Port 25 and local catchers such as Mailpit on 1025.
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if s.config.Username != "" && s.config.Password != "" {
		opts = append(opts,
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}
	return opts
}

package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/orderdesk/internal/jobs"
)

// ErrNoRecipient is returned for customer-facing events that carry no
// contact address.
var ErrNoRecipient = errors.New("event has no recipient address")

// Publisher turns order events into customer emails. order.created sends a
// confirmation and a fulfillment change to shipped sends a shipping notice;
// every other event is ignored. It satisfies the dispatcher's Publisher.
type Publisher struct {
	sender      Sender
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

// NewPublisher creates a new email publisher
func NewPublisher(sender Sender, fromAddress, fromName string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		logger:      logger.With("publisher", "email"),
	}
}

// Publish sends the email e calls for, if any.
func (p *Publisher) Publish(ctx context.Context, e jobs.Event) error {
	switch e.Type {
	case jobs.EventTypeOrderCreated:
		var payload jobs.OrderCreatedPayload
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
		}
		return p.send(ctx, payload.Contact.Email, OrderConfirmationEmail{
			OrderID:        e.OrderID,
			CustomerName:   payload.Contact.Name,
			OrderDate:      e.OccurredAt,
			Lines:          payload.Lines,
			Total:          payload.Total,
			CashOnDelivery: payload.PaymentMode == "cash_on_delivery",
			DueDate:        payload.DueDate,
		})

	case jobs.EventTypeFulfillmentChanged:
		var payload jobs.StatusChangedPayload
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
		}
		if payload.To != "shipped" {
			return nil
		}
		if payload.Contact == nil {
			return ErrNoRecipient
		}
		return p.send(ctx, payload.Contact.Email, ShippingNoticeEmail{
			OrderID:      e.OrderID,
			CustomerName: payload.Contact.Name,
			ShippedDate:  e.OccurredAt,
		})
	}
	return nil
}

// Close implements the dispatcher's Publisher. Senders hold no connections
// between messages.
func (p *Publisher) Close() error { return nil }

func (p *Publisher) send(ctx context.Context, to string, data EmailTemplate) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}

	htmlBody, textBody, err := renderTemplate(data.TemplateName(), data)
	if err != nil {
		return err
	}

	from := p.fromAddress
	if p.fromName != "" {
		from = fmt.Sprintf("%s <%s>", p.fromName, p.fromAddress)
	}

	id, err := p.sender.Send(ctx, &Email{
		To:       []string{to},
		From:     from,
		Subject:  data.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", data.TemplateName(), err)
	}

	p.logger.InfoContext(ctx, "email sent", "template", data.TemplateName(), "message_id", id)
	return nil
}

// renderTemplate returns the HTML body and its plain-text rendering.
func renderTemplate(templateName string, data interface{}) (string, string, error) {
	var htmlBuf bytes.Buffer
	if err := templates.ExecuteTemplate(&htmlBuf, templateName, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	htmlBody := htmlBuf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</div>", "\n")
	text = strings.ReplaceAll(text, "</h1>", "\n\n")
	text = strings.ReplaceAll(text, "</h2>", "\n\n")
	text = strings.ReplaceAll(text, "</h3>", "\n\n")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + text[end+1:]
		} else {
			break
		}
	}

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}

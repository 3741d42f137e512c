// Package email sends transactional order emails: a confirmation when an
// order is placed and a notice when it ships.
package email

import "context"

// Email represents an email message to be sent.
type Email struct {
	To       []string          // Recipient email addresses
	From     string            // Sender, "Name <address>" or a bare address
	Subject  string            // Email subject
	TextBody string            // Plain text body
	HTMLBody string            // HTML body (optional)
	Headers  map[string]string // Custom headers (optional)
}

// Sender delivers one message. Implementations exist for SMTP and Postmark.
type Sender interface {
	// Send sends an email message.
	// Returns the message ID from the email provider (if available).
	Send(ctx context.Context, email *Email) (string, error)
}

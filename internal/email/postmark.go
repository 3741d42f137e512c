package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultPostmarkURL is the Postmark single-message endpoint.
const DefaultPostmarkURL = "https://api.postmarkapp.com/email"

// PostmarkSender implements Sender using the Postmark API
type PostmarkSender struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type postmarkEmail struct {
	From     string           `json:"From"`
	To       string           `json:"To"`
	Subject  string           `json:"Subject"`
	HtmlBody string           `json:"HtmlBody,omitempty"`
	TextBody string           `json:"TextBody,omitempty"`
	Headers  []postmarkHeader `json:"Headers,omitempty"`
}

type postmarkHeader struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type postmarkResponse struct {
	To        string `json:"To"`
	MessageID string `json:"MessageID"`
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// NewPostmarkSender creates a new Postmark email sender. An empty endpoint
// means DefaultPostmarkURL.
func NewPostmarkSender(apiKey, endpoint string) *PostmarkSender {
	if endpoint == "" {
		endpoint = DefaultPostmarkURL
	}
	return &PostmarkSender{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Send sends an email via Postmark
func (p *PostmarkSender) Send(ctx context.Context, email *Email) (string, error) {
	payload := postmarkEmail{
		From:     email.From,
		To:       strings.Join(email.To, ","),
		Subject:  email.Subject,
		HtmlBody: email.HTMLBody,
		TextBody: email.TextBody,
	}
	for name, value := range email.Headers {
		payload.Headers = append(payload.Headers, postmarkHeader{Name: name, Value: value})
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("postmark API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result postmarkResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if result.ErrorCode != 0 {
		return "", fmt.Errorf("postmark error %d: %s", result.ErrorCode, result.Message)
	}

	return result.MessageID, nil
}

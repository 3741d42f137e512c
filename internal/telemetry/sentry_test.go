package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSentry_DisabledConfigs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		cfg  SentryConfig
	}{
		{"not enabled", SentryConfig{DSN: "https://key@example.com/1"}},
		{"enabled without dsn", SentryConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flush, err := InitSentry(tt.cfg, logger)
			require.NoError(t, err)
			require.NotNil(t, flush)
			flush()
			assert.False(t, IsEnabled())
		})
	}
}

func TestScrubRequestBody(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{Data: `{"shipping":{"email":"grace@example.com"}}`}}
	got := scrubRequestBody(event, nil)
	assert.Empty(t, got.Request.Data)

	assert.NotNil(t, scrubRequestBody(&sentry.Event{}, nil))
}

func TestSentryMiddleware_DisabledPassesThrough(t *testing.T) {
	handler := SentryMiddleware()(SentryContextMiddleware(func(ctx context.Context) *PrincipalInfo {
		t.Error("extractor should not run while reporting is off")
		return nil
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, sentry.GetHubFromContext(r.Context()))
		CaptureErrorFromContext(r.Context(), errors.New("ignored"), nil)
		w.WriteHeader(http.StatusNoContent)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

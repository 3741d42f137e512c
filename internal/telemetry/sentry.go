package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// SentryConfig configures error reporting. Reporting is off unless Enabled
// is set and DSN is non-empty.
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string
	Release     string

	// SampleRate is the share of errors sent, 0 meaning all of them.
	SampleRate float64
	// TracesSampleRate is the share of transactions traced.
	TracesSampleRate float64
	Debug            bool
}

var sentryEnabled atomic.Bool

// InitSentry sets up the global Sentry client and returns a flush function
// for shutdown. Every capture helper in this package is a no-op when
// reporting is off.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	sentryEnabled.Store(false)
	noop := func() {}

	if !cfg.Enabled {
		logger.Info("Error reporting disabled")
		return noop, nil
	}
	if cfg.DSN == "" {
		logger.Warn("SENTRY_DSN is empty, error reporting disabled")
		return noop, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
		BeforeSend:       scrubRequestBody,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	sentryEnabled.Store(true)

	logger.Info("Error reporting enabled",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
	)

	return func() { sentry.Flush(flushTimeout) }, nil
}

// scrubRequestBody drops request bodies: checkout payloads carry shipping
// addresses.
func scrubRequestBody(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		event.Request.Data = ""
	}
	return event
}

// IsEnabled reports whether errors are being sent.
func IsEnabled() bool {
	return sentryEnabled.Load()
}

// CaptureError reports err on the global hub with extras attached.
func CaptureError(err error, extras map[string]interface{}) {
	if !IsEnabled() || err == nil {
		return
	}
	capture(sentry.CurrentHub(), err, extras)
}

// CaptureErrorFromContext reports err on the request's hub, so the
// principal and route set by the middlewares below are attached.
func CaptureErrorFromContext(ctx context.Context, err error, extras map[string]interface{}) {
	if !IsEnabled() || err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	capture(hub, err, extras)
}

func capture(hub *sentry.Hub, err error, extras map[string]interface{}) {
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}

// AddBreadcrumb records an info-level step shown with later errors.
func AddBreadcrumb(category, message string, data map[string]interface{}) {
	if !IsEnabled() {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Data:     data,
		Level:    sentry.LevelInfo,
	})
}

// requestHub returns the hub already on r, or a clone of the global one.
func requestHub(r *http.Request) *sentry.Hub {
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		return hub
	}
	return sentry.CurrentHub().Clone()
}

// SentryMiddleware gives each request its own hub and reports panics that
// reach it. It must be the outermost middleware.
func SentryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := requestHub(r)
			hub.Scope().SetRequest(r)
			ctx := sentry.SetHubOnContext(r.Context(), hub)

			defer func() {
				if v := recover(); v != nil {
					hub.RecoverWithContext(ctx, v)
					hub.Flush(flushTimeout)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalInfo identifies the caller on captured events.
type PrincipalInfo struct {
	ID   string
	Role string
}

// PrincipalExtractor pulls the caller out of a request context.
type PrincipalExtractor func(ctx context.Context) *PrincipalInfo

// SentryContextMiddleware tags the request's hub with the route and, when
// extract finds one, the principal. Apply it after principal extraction.
func SentryContextMiddleware(extract PrincipalExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := requestHub(r)
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetContext("request", map[string]interface{}{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				if extract == nil {
					return
				}
				if p := extract(r.Context()); p != nil {
					scope.SetUser(sentry.User{ID: p.ID})
					scope.SetTag("role", p.Role)
				}
			})

			next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// Common size limits
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize bounds order and status payloads.
	DefaultMaxBodySize = 1 * MB
)

// MaxBodySize limits the size of request bodies.
// If no size is provided, DefaultMaxBodySize is used.
func MaxBodySize(maxBytes ...int64) func(http.Handler) http.Handler {
	limit := int64(DefaultMaxBodySize)
	if len(maxBytes) > 0 && maxBytes[0] > 0 {
		limit = maxBytes[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > limit {
				respond(w, r, http.StatusRequestEntityTooLarge, domain.EINVALID, "Request body too large", nil)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout bounds request processing. The deadline is also visible to the
// store through the request context, so a slow transaction is cancelled and
// rolled back rather than left running. If the handler has not started
// responding by the deadline the client gets 503.
func Timeout(timeout ...time.Duration) func(http.Handler) http.Handler {
	duration := DefaultTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		duration = timeout[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			done := make(chan struct{})
			tw := &timeoutWriter{ResponseWriter: w}

			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				return
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()

				tw.timedOut = true
				if !tw.wroteHeader {
					respond(w, r, http.StatusServiceUnavailable, domain.EUNAVAILABLE, "Request timed out", ctx.Err())
				}
			}
		})
	}
}

// timeoutWriter drops writes that arrive after the deadline fired.
type timeoutWriter struct {
	http.ResponseWriter
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.wroteHeader || tw.timedOut {
		return
	}
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, context.DeadlineExceeded
	}
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

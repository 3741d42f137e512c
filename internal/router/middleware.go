package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/handler"
	"github.com/dukerupert/orderdesk/internal/middleware"
	"github.com/dukerupert/orderdesk/internal/telemetry"
)

// Logger logs each request with method, route, status and duration. It uses
// the request-scoped logger when WithRequestLogger ran earlier in the chain.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			level := slog.LevelInfo
			if wrapped.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			middleware.GetLogger(r.Context(), logger).Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"pattern", r.Pattern,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.statusCode = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

// Recovery turns a panic into a 500 JSON response, logs the stack and
// reports it to Sentry.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				middleware.GetLogger(r.Context(), logger).Error("panic recovered",
					"error", err,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
					"path": r.URL.Path,
				})
				handler.ErrorResponse(w, r, domain.Internal(err, "http.recover", "An internal error occurred"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS adds CORS headers for allowed origins and answers preflight requests.
func CORS(allowedOrigins []string) Middleware {
	allowHeaders := strings.Join([]string{
		"Content-Type",
		middleware.RequestIDHeader,
		middleware.PrincipalIDHeader,
		middleware.PrincipalRoleHeader,
		"Idempotency-Key",
	}, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && (slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				w.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader+", Retry-After, Location")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

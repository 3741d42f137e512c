package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the rate limiter
type RateLimiterConfig struct {
	// RequestsPerSecond is the rate of token refill
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst
	BurstSize int

	// IdleTTL is how long an unused key keeps its limiter
	IdleTTL time.Duration

	// KeyFunc extracts the rate limit key from the request
	// Default: principal id, falling back to client IP
	KeyFunc func(r *http.Request) string
}

// DefaultRateLimiterConfig returns sensible defaults for checkout.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 2,
		BurstSize:         10,
		IdleTTL:           5 * time.Minute,
		KeyFunc:           PrincipalOrClientIP,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	config   RateLimiterConfig
	mu       sync.Mutex
	visitors map[string]*visitor
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop when done.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = PrincipalOrClientIP
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 5 * time.Minute
	}
	if config.BurstSize <= 0 {
		config.BurstSize = 1
	}

	rl := &RateLimiter{
		config:   config,
		visitors: make(map[string]*visitor),
		stop:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.IdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.config.IdleTTL {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware returns an HTTP middleware that applies rate limiting
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.config.KeyFunc(r)) {
			retryAfter := 1
			if rl.config.RequestsPerSecond > 0 && rl.config.RequestsPerSecond < 1 {
				retryAfter = int(1/rl.config.RequestsPerSecond + 0.5)
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respond(w, r, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalOrClientIP keys authenticated requests by principal and anonymous
// ones by client address.
func PrincipalOrClientIP(r *http.Request) string {
	if p := domain.PrincipalFromContext(r.Context()); p != nil {
		return "principal:" + p.ID.String()
	}
	return "ip:" + GetClientIP(r)
}

// GetClientIP extracts the client IP from the request
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/telemetry"
	"github.com/google/uuid"
)

// Headers set by the authenticating gateway in front of the API. The API
// trusts them as-is and must not be reachable except through that gateway.
const (
	PrincipalIDHeader   = "X-Principal-ID"
	PrincipalRoleHeader = "X-Principal-Role"
)

// WithPrincipal attaches the caller named by the principal headers to the
// request context. Requests without the headers continue anonymously;
// malformed headers are rejected with 401.
func WithPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := strings.TrimSpace(r.Header.Get(PrincipalIDHeader))
		rawRole := strings.TrimSpace(r.Header.Get(PrincipalRoleHeader))
		if rawID == "" && rawRole == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(rawID)
		if err != nil || id == uuid.Nil {
			respondUnauthorized(w, r, "Invalid principal id")
			return
		}
		role := domain.Role(strings.ToLower(rawRole))
		if !role.Valid() {
			respondUnauthorized(w, r, "Invalid principal role")
			return
		}

		ctx := domain.NewContextWithPrincipal(r.Context(), &domain.Principal{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePrincipal rejects anonymous requests with 401.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SentryPrincipal adapts the context principal for telemetry.SentryContextMiddleware.
func SentryPrincipal(ctx context.Context) *telemetry.PrincipalInfo {
	p := domain.PrincipalFromContext(ctx)
	if p == nil {
		return nil
	}
	return &telemetry.PrincipalInfo{ID: p.ID.String(), Role: string(p.Role)}
}

// Package domain provides the order aggregate, its status machine, the cart
// and payment value types, and the error model shared by every layer.
//
// Context helpers centralize request-scoped data access so that handlers and
// services agree on where the authenticated principal lives.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// principalContextKey stores the authenticated principal in context.
	principalContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Role is the capability an authenticated principal carries.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Principal is the already-authenticated caller. The core trusts it and
// performs no credential checks of its own.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// CanPlaceOrders reports whether the principal may create orders.
func (p Principal) CanPlaceOrders() bool {
	return p.Role == RoleCustomer
}

// IsStaff reports whether the principal may mutate orders and run reports.
func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff || p.Role == RoleAdmin
}

// --- Principal Context Helpers ---

// NewContextWithPrincipal returns a new context with the principal attached.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the principal from context.
// Returns nil if no principal is present.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// PrincipalIDFromContext retrieves the principal ID from context.
// Returns uuid.Nil if no principal is present.
func PrincipalIDFromContext(ctx context.Context) uuid.UUID {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.ID
	}
	return uuid.Nil
}

// MustPrincipal retrieves the principal from context, panicking if not present.
// The panic will be caught by error recovery middleware in HTTP handlers.
func MustPrincipal(ctx context.Context) *Principal {
	p := PrincipalFromContext(ctx)
	if p == nil {
		panic("principal required in context but not found")
	}
	return p
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// IsAuthenticated returns true if there is a principal in context.
func IsAuthenticated(ctx context.Context) bool {
	return PrincipalFromContext(ctx) != nil
}

package service

import (
	"errors"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// Authorization errors - use domain.EUNAUTHORIZED / domain.EFORBIDDEN
var (
	ErrNotAuthenticated = domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required")
	ErrNotCustomer      = domain.ErrNotCustomer
	ErrStaffOnly        = domain.ErrStaffOnly
)

// Order-related errors
var (
	ErrOrderNotFound      = domain.ErrOrderNotFound
	ErrDueDateRequired    = domain.Errorf(domain.EINVALID, "", "Due date is required")
	ErrDueBeforeCreation  = domain.ErrDueBeforeCreation
	ErrConcurrentUpdate   = domain.ErrSerializationFailure
	ErrIdempotencyReplay  = domain.ErrIdempotencyReplay
	ErrIdempotencyKeySize = domain.Errorf(domain.EINVALID, "", "Idempotency key must be at most 255 characters")
)

// Payment errors
var (
	ErrIncompletePaymentResult = domain.ErrIncompletePaymentResult
	ErrOnlineMethodRequired    = domain.Errorf(domain.EINVALID, "", "Online payment results need a gateway method other than cash_on_delivery")
)

// persistenceError turns an unexpected store error into a domain error.
// Errors the store already classified keep their code.
func persistenceError(store Store, err error, op, message string) error {
	if err == nil {
		return nil
	}
	err = store.Classify(err)
	var de *domain.Error
	if errors.As(err, &de) || domain.IsValidationError(err) {
		return err
	}
	return domain.Internal(err, op, message)
}

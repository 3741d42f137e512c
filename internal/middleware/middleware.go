// Package middleware holds the HTTP middleware of the order API: request IDs,
// request-scoped loggers, principal extraction, limits and metrics.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/orderdesk/internal/domain"
)

type contextKey string

// ============================================================================
// MIDDLEWARE ERROR RESPONSE HELPERS
// ============================================================================
//
// These mirror handler.ErrorResponse but are self-contained to avoid a
// circular import (handler imports middleware for GetLogger).

// respondWithError writes a JSON error body for err.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	respond(w, r, errorCodeToHTTPStatus(code), code, domain.ErrorMessage(err), err)
}

func respond(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	attrs := []any{
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	if reqID := GetRequestID(r.Context()); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}

	logger := GetLogger(r.Context())
	if status >= 500 {
		logger.Error("middleware error", attrs...)
	} else {
		logger.Info("middleware error", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// respondUnauthorized is a convenience wrapper for 401 errors.
func respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	respondWithError(w, r, domain.Unauthorized("", message))
}

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.EUNPROCESSABLE:
		return http.StatusUnprocessableEntity // 422
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

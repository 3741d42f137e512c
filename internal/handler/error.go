// Package handler translates domain errors into HTTP responses. Endpoint
// handlers live in the api subpackage.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/middleware"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request.
type ErrorDetail struct {
	Code      string            `json:"code"`
	Reason    string            `json:"reason,omitempty"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNPROCESSABLE:
		return http.StatusUnprocessableEntity
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse logs err and writes it to the client. Internal errors are
// reported with a generic message; everything else carries the domain
// message, its reason and any field errors. Non-JSON clients get plain text.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	message := domain.ErrorMessage(err)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err,
		"code", code,
		"reason", domain.ErrorReason(err),
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		logger.InfoContext(r.Context(), "request rejected", attrs...)
	}

	if status == http.StatusServiceUnavailable || status == http.StatusConflict {
		w.Header().Set("Retry-After", "1")
	}

	if !acceptsJSON(r) {
		http.Error(w, message, status)
		return
	}

	body := ErrorBody{Error: ErrorDetail{
		Code:      code,
		Reason:    domain.ErrorReason(err),
		Message:   message,
		Fields:    domain.GetValidationFields(err),
		Retryable: domain.IsRetryable(err),
		RequestID: middleware.GetRequestID(r.Context()),
	}}
	if code == domain.EINTERNAL {
		body.Error.Reason = ""
	}
	WriteJSON(w, status, body)
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// acceptsJSON reports whether the client wants JSON. API clients that send
// no Accept header get JSON.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" || strings.Contains(accept, "application/json") || strings.Contains(accept, "*/*") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

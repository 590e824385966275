package rpc

import (
	"context"
	"errors"
	"net/http"

	"ecodeli/internal/apperr"
)

// Result codes carried in failure envelopes.
const (
	CodeOK           = "OK"
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidCode  = "INVALID_CODE"
	CodeUnavailable  = "UNAVAILABLE"
	CodeRateLimited  = "RATE_LIMITED"
	CodeTimeout      = "TIMEOUT"
	CodeInternal     = "INTERNAL"
)

// Result is the envelope every procedure call answers with.
type Result struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data any) Result {
	return Result{Success: true, Data: data}
}

// Failure classifies err into an HTTP status and a failure envelope.
// Uncategorized errors are reported as INTERNAL without their message.
func Failure(err error) (int, Result) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, Result{
			Error:   verr.Error(),
			Code:    CodeValidation,
			Details: verr.Details,
		}
	}

	status, code := classify(err)
	msg := err.Error()
	if code == CodeInternal {
		msg = "internal error"
	}
	return status, Result{Error: msg, Code: code}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidCode):
		return http.StatusBadRequest, CodeInvalidCode
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

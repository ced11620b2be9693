package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the storefront. Upstream provider failures are
// classified into this taxonomy at the boundary instead of leaking raw
// provider error strings; the original text stays in the wrapped Err.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodePaymentNotCompleted  = "PAYMENT_NOT_COMPLETED"
	CodeVerificationMismatch = "PAYMENT_VERIFICATION_MISMATCH"
	CodeUpstreamUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest, err)
}

func NotFound(resource string, err error) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, err)
}

func Unauthorized(message string, err error) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized, err)
}

func Forbidden(message string, err error) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden, err)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict, nil)
}

func PaymentNotCompleted(message string, err error) *AppError {
	return New(CodePaymentNotCompleted, message, http.StatusPaymentRequired, err)
}

func VerificationMismatch(message string) *AppError {
	return New(CodeVerificationMismatch, message, http.StatusBadRequest, nil)
}

func UpstreamUnavailable(message string, err error) *AppError {
	return New(CodeUpstreamUnavailable, message, http.StatusBadGateway, err)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError, err)
}

// Is reports whether err carries the given application error code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// From extracts the AppError from err, wrapping anything unclassified as
// an internal error.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

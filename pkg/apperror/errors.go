package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"` // Machine-readable extras (e.g., required/available)
	Err        error          `json:"-"`                 // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Settlement (SET) ----

func ErrEmptyBatch() *AppError {
	return New("SET_001", "Batch contains no vouchers", http.StatusBadRequest)
}

func ErrBatchTooLarge(max int) *AppError {
	return New("SET_002", fmt.Sprintf("Batch exceeds maximum of %d vouchers", max), http.StatusRequestEntityTooLarge)
}

func ErrMissingMerchant() *AppError {
	return New("SET_003", "Batch merchantId is required", http.StatusBadRequest)
}

// ---- Balance (BAL) ----

func ErrInsufficientBalance(required, available int64) *AppError {
	e := New("BAL_001", "Insufficient balance", http.StatusPaymentRequired)
	e.Details = map[string]any{"required": required, "available": available}
	return e
}

func ErrInvalidAmount() *AppError {
	return New("BAL_002", "Invalid amount", http.StatusBadRequest)
}

func ErrTopupLimitExceeded(max int64) *AppError {
	e := New("BAL_003", "Top-up amount exceeds per-operation maximum", http.StatusUnprocessableEntity)
	e.Details = map[string]any{"max": max}
	return e
}

func ErrNotFound(entity string) *AppError {
	return New("BAL_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrMerchantOnly() *AppError {
	return New("AUTH_004", "Merchant role required", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrStoreUnavailable signals a retryable infrastructure failure, distinct
// from per-voucher rejections and balance validation errors.
func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Settlement store unavailable, retry later", http.StatusServiceUnavailable, err)
}

// Validation returns a BAL_002-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("BAL_002", message, http.StatusBadRequest)
}

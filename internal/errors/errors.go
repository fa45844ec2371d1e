// Package errors provides custom error types for the FinTrack client.
// Every failure the core surfaces to a view is an AppError carrying a
// machine-readable code, so callers can branch on Code without string
// matching, and the original cause stays available via Unwrap.
package errors

import "net/http"

// AppError represents a structured client error with an error code,
// human-readable message, the HTTP status that produced it (0 when the
// error never reached the backend), and optional internal error.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	StatusCode int               `json:"-"`
	Fields     map[string]string `json:"fields,omitempty"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError carrying per-field validation reasons.
func WithFields(sentinel *AppError, fields map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Fields:     fields,
	}
}

// Transport-level errors.
var (
	ErrNetwork = &AppError{Code: "NETWORK_ERROR", Message: "Cannot connect to the FinTrack backend"}
	ErrServer  = &AppError{Code: "SERVER_ERROR", Message: "The backend reported an internal fault", StatusCode: http.StatusInternalServerError}
)

// Request errors surfaced from the backend.
var (
	ErrValidation = &AppError{Code: "VALIDATION_ERROR", Message: "The backend rejected the request payload", StatusCode: http.StatusBadRequest}
	ErrAuth       = &AppError{Code: "AUTH_ERROR", Message: "Authentication required or rejected", StatusCode: http.StatusUnauthorized}
	ErrNotFound   = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict   = &AppError{Code: "CONFLICT", Message: "The request conflicts with existing data", StatusCode: http.StatusConflict}
)

// Local errors that never involve the network.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrRecordNotFound = &AppError{Code: "RECORD_NOT_FOUND", Message: "Record is not present in the local list"}
)

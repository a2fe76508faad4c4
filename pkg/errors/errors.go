package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the catalog error taxonomy. Services wrap these so
// callers can branch with errors.Is regardless of the message text.
var (
	ErrNotFound       = errors.New("no data found")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrInvalidToken   = errors.New("invalid token")
	ErrBatchTooLarge  = errors.New("batch too large")
	ErrValidation     = errors.New("validation failed")
	ErrInternal       = errors.New("internal error")
)

// AppError is a structured application error carrying a stable code and the
// HTTP status the transport layer should map it to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error. An empty query result is a normal outcome,
// reported to the caller as not-found rather than as a fault.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// DuplicateEmail creates a 409 error for a registration conflict.
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_EMAIL",
		Message: fmt.Sprintf("a customer with email %q already exists", email),
		Status:  http.StatusConflict,
		Err:     ErrDuplicateEmail,
	}
}

// InvalidToken creates a 401 error for a tenant token that does not resolve.
func InvalidToken(token string) *AppError {
	return &AppError{
		Code:    "INVALID_TOKEN",
		Message: fmt.Sprintf("token %q is invalid", token),
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidToken,
	}
}

// BatchTooLarge creates a 400 error for an ingestion call exceeding the
// per-call document ceiling.
func BatchTooLarge(limit int) *AppError {
	return &AppError{
		Code:    "BATCH_TOO_LARGE",
		Message: fmt.Sprintf("maximum limit for payload is %d documents", limit),
		Status:  http.StatusBadRequest,
		Err:     ErrBatchTooLarge,
	}
}

// Validation creates a 400 error for an item that fails required-field or
// type checks.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// InvalidInput creates a 400 error for a malformed request.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Internal creates a 500 error wrapping an unexpected failure.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBatchTooLarge), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

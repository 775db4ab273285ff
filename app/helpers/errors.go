package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the status and client-facing message for a failed request.
// Err is the underlying cause and is only ever logged.
type AppError struct {
	Status  int
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

const (
	MsgValidation = "Validation error"
	MsgInternal   = "Internal server error"
	MsgTimeout    = "Request timed out, please try again"
)

func NewValidationError(details ...string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: MsgValidation, Details: details}
}

func NewBadRequest(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func NewTooManyRequests(msg string) *AppError {
	return &AppError{Status: http.StatusTooManyRequests, Message: msg}
}

func NewInternal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: MsgInternal, Err: err}
}

// AsAppError maps any error onto the taxonomy. Unknown errors become Internal
// and deadline hits become a retryable 503.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Status: http.StatusServiceUnavailable, Message: MsgTimeout, Err: err}
	}
	return NewInternal(err)
}

func IsStatus(err error, status int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == status
}

// Package errors defines the error taxonomy the shell API reports to the UI.
// Each code maps to one HTTP status in the httpx package.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError.
type ErrorCode string

// Error codes.
const (
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeRateLimited  ErrorCode = "rate_limited"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
)

// AppError carries a code and a message safe to show the user. Cause is kept for
// logs and errors.Is/As but never rendered to clients.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending request field for validation errors.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// New creates an AppError with the given code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ValidationField reports a missing or malformed request field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Unauthorized reports an operation that requires a signed-in session.
func Unauthorized(message string) *AppError { return New(ErrCodeUnauthorized, message) }

// RateLimited reports a caller over its attempt budget.
func RateLimited(message string) *AppError { return New(ErrCodeRateLimited, message) }

// Internal reports a server-side failure.
func Internal(message string) *AppError { return New(ErrCodeInternal, message) }

// Wrap attaches code and message to err. Context cancellation and deadline errors
// override code with canceled and timeout respectively. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
		code = ErrCodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = ErrCodeTimeout
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// GetCode returns the code of the first AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of the first AppError in err's chain, or "".
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

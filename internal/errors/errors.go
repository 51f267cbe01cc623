package errors

import (
	"context"
	"errors"
	"fmt"
)

// AppError is an application-specific error type
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Error code constants
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInvalidArg = "INVALID_ARGUMENT"
	CodeExternal   = "EXTERNAL_ERROR"
	CodeConflict   = "CONFLICT"         // Resource already exists (UNIQUE violation)
	CodeDependency = "DEPENDENCY_ERROR" // Foreign key constraint violation

	CodeQuotaExceeded   = "QUOTA_EXCEEDED"   // Daily API budget spent; never retried
	CodeTransient       = "TRANSIENT_ERROR"  // Network/rate/server failure; retryable
	CodeMalformedRecord = "MALFORMED_RECORD" // Single item failed normalization; absorbed
	CodeSchemaInvalid   = "SCHEMA_INVALID"   // Record set fails the pre-write gate; aborts the save
	CodeConfigInvalid   = "CONFIG_INVALID"   // Missing/invalid configuration; fatal at startup
)

// Code returns the AppError code carried by err, or an empty string
// when err is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given AppError code.
func IsCode(err error, code string) bool {
	return Code(err) == code
}

// IsQuotaExceeded reports whether err signals a spent API budget.
// Quota errors are terminal: retrying only burns more of the budget.
func IsQuotaExceeded(err error) bool {
	return IsCode(err, CodeQuotaExceeded)
}

// IsTransient reports whether err is worth retrying. A per-request
// deadline expiry counts as transient; run cancellation does not.
func IsTransient(err error) bool {
	if IsCode(err, CodeTransient) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

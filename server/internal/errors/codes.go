package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for reconciliation operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeLLMUnavailable indicates the reasoning service is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeParseFailed indicates the reasoning service returned unparsable output.
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// ReconcileError represents a structured error for reconciliation operations.
type ReconcileError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ReconcileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ReconcileError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ReconcileError {
	return &ReconcileError{Code: ErrCodeInvalidArgument, Message: msg}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *ReconcileError {
	return &ReconcileError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// ParseFailed creates a parse failed error.
func ParseFailed(msg string, cause error) *ReconcileError {
	return &ReconcileError{Code: ErrCodeParseFailed, Message: msg, Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *ReconcileError {
	return &ReconcileError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *ReconcileError {
	return &ReconcileError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *ReconcileError {
	return &ReconcileError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if rerr, ok := err.(*ReconcileError); ok {
		return rerr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a ReconcileError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if rerr, ok := err.(*ReconcileError); ok {
		return rerr.Code
	}
	return defaultCode
}

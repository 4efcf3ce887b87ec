package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code      string
	Message   string
	Cause     error
	Retryable bool
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the original code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:      appErr.Code,
			Message:   message,
			Cause:     appErr,
			Retryable: appErr.Retryable,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:      code,
			Message:   appErr.Message,
			Cause:     appErr.Cause,
			Retryable: appErr.Retryable,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsRetryable reports whether the operation may succeed on another attempt
func IsRetryable(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Retryable
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeIOError        = "IO_ERROR"
	CodeCoerceError    = "COERCE_ERROR"
	CodeSchemaMismatch = "SCHEMA_MISMATCH"
	CodeDatabaseError  = "DATABASE_ERROR"
	CodeBucketNotFound = "BUCKET_NOT_FOUND"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"
	CodeAuthInvalid    = "AUTH_INVALID"
	CodeUnreachable    = "ENDPOINT_UNREACHABLE"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeRenderError    = "RENDER_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func IOError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: fmt.Sprintf("io failure on %s", path),
		Cause:   cause,
	}
}

func CoerceError(column string, cause error) *AppError {
	return &AppError{
		Code:    CodeCoerceError,
		Message: fmt.Sprintf("failed to coerce column %s", column),
		Cause:   cause,
	}
}

func SchemaMismatch(message string) *AppError {
	return New(CodeSchemaMismatch, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:      CodeDatabaseError,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

func BucketNotFound(bucket string) *AppError {
	return New(CodeBucketNotFound, fmt.Sprintf("bucket %s not found", bucket))
}

func ObjectNotFound(key string) *AppError {
	return New(CodeObjectNotFound, fmt.Sprintf("object %s not found", key))
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

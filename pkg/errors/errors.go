// Package errors provides the unified error type and factory functions for
// beamtune.  Every layer (engine, client, demo backend, interfaces) uses
// AppError as the single carrier for structured error information, enabling
// consistent messages, logging, and HTTP responses.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the single structured error type used throughout beamtune.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
type AppError struct {
	// Code is the typed error code that identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error,
	// suitable for direct display in the front-end status line.
	Message string

	// Detail carries supplementary context (field names, request IDs) that
	// aids debugging without cluttering the user-visible message.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when
// Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline on call results.  When err is
// already an *AppError and code is CodeUnknown, the original code is
// preserved so cross-layer propagation does not lose classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain,
// CodeUnknown when none is present, CodeOK for nil.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// ErrInvalidConfig is the sentinel returned by constructors that receive an
// unusable configuration (empty base URL, bad scheme, ...).
var ErrInvalidConfig = New(ErrCodeInvalidConfig, "invalid configuration")

// Internal constructs an ErrCodeInternal AppError.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// BadRequest constructs an ErrCodeBadRequest AppError.
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

// Validation constructs an ErrCodeValidation AppError.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// External constructs an ErrCodeExternalService AppError.
func External(message string) *AppError {
	return New(ErrCodeExternalService, message)
}

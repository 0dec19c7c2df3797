// Package errors provides structured error types for gridwire.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API, and the core engine
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Routing and geometry failures carry their own codes (OUT_OF_RANGE,
// ILLEGAL_ARRIVAL, INVALID_CROSS_QUERY, MALFORMED_POLYLINE). Input and
// configuration problems use the INVALID_* family.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfRange, "row %d out of range [0, %d)", row, rows)
//	if errors.Is(err, errors.ErrCodeOutOfRange) {
//	    // Handle bounds error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode sheet %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Routing and geometry errors
	ErrCodeOutOfRange        Code = "OUT_OF_RANGE"
	ErrCodeIllegalArrival    Code = "ILLEGAL_ARRIVAL"
	ErrCodeInvalidCrossQuery Code = "INVALID_CROSS_QUERY"
	ErrCodeMalformedPolyline Code = "MALFORMED_POLYLINE"
	ErrCodeUnknownConnection Code = "UNKNOWN_CONNECTION"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the HTTP API answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeOutOfRange, ErrCodeIllegalArrival, ErrCodeUnknownConnection,
		ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidFormat:
		return 400
	case ErrCodeFileNotFound:
		return 404
	default:
		return 500
	}
}

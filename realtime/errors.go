package realtime

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error type.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota

	// Payload errors. The event is dropped, the stream keeps running.
	ErrorMalformedPayload
	ErrorIncompletePayload

	// Client-side errors
	ErrorCapabilityMissing
	ErrorConnection
	ErrorInvalidConfig
	ErrorAlreadyOpen
	ErrorNotOpen
	ErrorSerialization
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorUnknown:
		return "unknown"
	case ErrorMalformedPayload:
		return "malformed_payload"
	case ErrorIncompletePayload:
		return "incomplete_payload"
	case ErrorCapabilityMissing:
		return "capability_missing"
	case ErrorConnection:
		return "connection_error"
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorAlreadyOpen:
		return "already_open"
	case ErrorNotOpen:
		return "not_open"
	case ErrorSerialization:
		return "serialization_error"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// Error is a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

var (
	ErrCapabilityMissing = NewError(ErrorCapabilityMissing, "no event stream transport available")
	ErrAlreadyOpen       = NewError(ErrorAlreadyOpen, "subscription already open")
	ErrNotOpen           = NewError(ErrorNotOpen, "subscription not open")
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s (wrapped: %v)", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with an Error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// CodeOf returns the code carried by err, or ErrorUnknown.
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ErrorUnknown
}

// IsPayloadError checks if an error came from decoding a single event.
func IsPayloadError(err error) bool {
	if err == nil {
		return false
	}
	code := CodeOf(err)
	return code == ErrorMalformedPayload || code == ErrorIncompletePayload
}

// IsConnectionError checks if an error is a connection-related error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	code := CodeOf(err)
	return code == ErrorConnection || code == ErrorCapabilityMissing
}

// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error. Config errors are
	// fatal at batch level: the batch aborts before any workload runs.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeDataUnavailable indicates no price exists for a key at any
	// tier. Recoverable: it triggers the fallback chain.
	TypeDataUnavailable Type = "DATA_UNAVAILABLE"

	// TypeRemoteProvider indicates a transient remote provider failure.
	// Retried with backoff, then demoted to TypeDataUnavailable.
	TypeRemoteProvider Type = "REMOTE_PROVIDER_FAILURE"

	// TypeNegativeCost indicates a negative computed cost. This is a
	// programming-error class: clamped and logged, never emitted.
	TypeNegativeCost Type = "NEGATIVE_COST_ANOMALY"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// DataUnavailable creates a data-unavailable error for a pricing key
func DataUnavailable(key string) *Error {
	return Newf(TypeDataUnavailable, "no price at any tier for %s", key)
}

// RemoteProvider wraps a transient remote provider failure
func RemoteProvider(message string, cause error) *Error {
	return Wrap(TypeRemoteProvider, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

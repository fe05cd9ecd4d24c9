// Package apperrors defines the failure kinds surfaced by tool calls.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Kind tags a failure. Each kind has a stable wire code and a recoverability.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindAuth
	KindValidation
	KindNotFound
	KindTimeout
)

// Code returns the wire code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindConnection:
		return "API_CONNECTION_ERROR"
	case KindAuth:
		return "AUTH_ERROR"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Recoverable reports whether retrying the same call may succeed.
func (k Kind) Recoverable() bool {
	switch k {
	case KindConnection, KindTimeout, KindUnknown:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a tagged failure carrying the payload fields relevant to its kind.
// Endpoint is set for Connection and Timeout, Field for Validation,
// Resource and Identifier for NotFound.
type Error struct {
	Kind       Kind
	Message    string
	Endpoint   string
	Field      string
	Resource   string
	Identifier string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the wire code of the error's kind.
func (e *Error) Code() string { return e.Kind.Code() }

// Recoverable reports the recoverability of the error's kind.
func (e *Error) Recoverable() bool { return e.Kind.Recoverable() }

// Connection reports an unreachable upstream or a 5xx response.
func Connection(endpoint string, err error) *Error {
	msg := "failed to reach finance API"
	if endpoint != "" {
		msg = fmt.Sprintf("failed to reach finance API at %s", endpoint)
	}
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &Error{Kind: KindConnection, Message: msg, Endpoint: endpoint, Err: err}
}

// Auth reports a credential or token failure.
func Auth(message string, err error) *Error {
	if message == "" {
		message = "Authentication failed"
	}
	return &Error{Kind: KindAuth, Message: message, Err: err}
}

// Validation reports malformed input. Field may be empty.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

// NotFound reports a named resource that does not exist.
func NotFound(resource, identifier string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s %q not found", resource, identifier),
		Resource:   resource,
		Identifier: identifier,
	}
}

// Timeout reports a cancelled or expired call.
func Timeout(endpoint string, err error) *Error {
	msg := "request timed out"
	if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	}
	if endpoint != "" {
		msg = fmt.Sprintf("%s: %s", msg, endpoint)
	}
	return &Error{Kind: KindTimeout, Message: msg, Endpoint: endpoint, Err: err}
}

// Unknown wraps an unclassified failure.
func Unknown(err error) *Error {
	msg := "An unexpected error occurred"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

// Classify maps any error onto a tagged Error. Context cancellation and
// deadline expiry become Timeout. Returns nil for a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Timeout("", err)
	}
	return Unknown(err)
}

// Is reports whether err classifies as the given kind.
func Is(err error, kind Kind) bool {
	e := Classify(err)
	return e != nil && e.Kind == kind
}

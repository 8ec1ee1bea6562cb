// Package apperrors provides the typed error taxonomy shared by the
// repositories, services and handlers, with HTTP status code mapping.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for response formatting.
type Kind string

const (
	// KindNotFound indicates an absent experiment/session/task/user (HTTP 404)
	KindNotFound Kind = "not_found"
	// KindForbidden indicates an authorization failure (HTTP 403)
	KindForbidden Kind = "forbidden"
	// KindInvalidReference indicates a session submission referencing
	// tasks outside its experiment (HTTP 400)
	KindInvalidReference Kind = "invalid_reference"
	// KindMalformedResult indicates stored result data the statistics
	// engine cannot process (HTTP 500)
	KindMalformedResult Kind = "malformed_result"
	// KindValidation indicates invalid request input (HTTP 400)
	KindValidation Kind = "validation"
	// KindUnavailable indicates a transient store failure, retryable by
	// the caller (HTTP 503)
	KindUnavailable Kind = "unavailable"
	// KindInternal indicates an unexpected server-side error (HTTP 500)
	KindInternal Kind = "internal"
)

// Error is a structured error with a kind, message and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	// TaskIDs lists the offending task references for invalid_reference
	// errors.
	TaskIDs []uint
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidReference, KindValidation:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NotFound creates a new not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden creates a new authorization error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// InvalidReference creates an error listing the offending task IDs.
func InvalidReference(message string, taskIDs []uint) *Error {
	return &Error{Kind: KindInvalidReference, Message: message, TaskIDs: taskIDs}
}

// MalformedResult creates an error for structurally invalid result data.
func MalformedResult(message string) *Error {
	return &Error{Kind: KindMalformedResult, Message: message}
}

// Validation creates a new input validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unavailable creates a retryable store failure error.
func Unavailable(message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Cause: cause}
}

// Internal creates a new internal error.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf extracts the kind from any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf extracts the HTTP status from any error.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

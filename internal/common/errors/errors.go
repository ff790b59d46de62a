// Package errors provides standardized error handling for the activity registry API.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Client errors
const (
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadySignedUp  ErrorCode = "ALREADY_SIGNED_UP"
	ErrCodeNotRegistered    ErrorCode = "NOT_REGISTERED"
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
)

// Server errors
const (
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus returns the status code the error is surfaced with.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// NewActivityNotFoundError is returned when no registry entry matches the name.
func NewActivityNotFoundError(activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activity),
		Metadata:  map[string]interface{}{"activity": activity},
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySignedUpError is returned when the email is already on the roster.
func NewAlreadySignedUpError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySignedUp,
		Message:   "Student is already signed up",
		Details:   fmt.Sprintf("activity: %s, email: %s", activity, email),
		Metadata:  map[string]interface{}{"activity": activity, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotRegisteredError is returned when unregistering an email that is not on the roster.
func NewNotRegisteredError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotRegistered,
		Message:   "Student is not signed up for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activity, email),
		Metadata:  map[string]interface{}{"activity": activity, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingParameterError is returned when a required query parameter is absent.
func NewMissingParameterError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingParameter,
		Message:   fmt.Sprintf("Missing required query parameter: %s", name),
		Metadata:  map[string]interface{}{"parameter": name},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError wraps a backend failure. Callers may retry.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Activity registry is unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps any error that has no dedicated code.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadySignedUp, ErrCodeNotRegistered, ErrCodeMissingParameter:
		return http.StatusBadRequest
	case ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the code is caused by the request rather than the service.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeActivityNotFound:
		return "NOT_FOUND"
	case ErrCodeAlreadySignedUp, ErrCodeNotRegistered, ErrCodeMissingParameter:
		return "BAD_REQUEST"
	case ErrCodeStoreUnavailable:
		return "INFRASTRUCTURE"
	default:
		return "UNKNOWN"
	}
}

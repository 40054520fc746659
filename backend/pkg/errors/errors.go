package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeStorage represents meeting write/storage errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeQuery represents read-side query errors
	ErrorTypeQuery ErrorType = "query"
	// ErrorTypeValidation represents invalid input errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j driver cannot be
// constructed or connectivity verification fails. Fatal at startup.
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// Unwrap exposes the embedded BaseError so errors.As and IsErrorType can
// reach it; the BaseError in turn unwraps to the underlying cause.
func (e *ErrGraphConnectionFailed) Unwrap() error { return e.BaseError }

// Storage Errors

// ErrWriteFailed is returned internally when a meeting write transaction
// fails. Callers of the public API see a false return instead.
type ErrWriteFailed struct {
	*BaseError
	MeetingID string
}

func NewWriteFailed(meetingID string, err error) *ErrWriteFailed {
	return &ErrWriteFailed{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("failed to store meeting: %s", meetingID), err),
		MeetingID: meetingID,
	}
}

func (e *ErrWriteFailed) Unwrap() error { return e.BaseError }

// ErrStorageTimeout is returned internally when a write transaction exceeds
// its deadline. Mapped to the same false-return contract as other write
// failures.
type ErrStorageTimeout struct {
	*BaseError
	MeetingID string
	Timeout   time.Duration
}

func NewStorageTimeout(meetingID string, timeout time.Duration, err error) *ErrStorageTimeout {
	return &ErrStorageTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("storage timed out after %v for meeting: %s", timeout, meetingID), err),
		MeetingID: meetingID,
		Timeout:   timeout,
	}
}

func (e *ErrStorageTimeout) Unwrap() error { return e.BaseError }

// Query Errors

// ErrQueryFailed is returned internally when a read query fails. Callers of
// the public API see an empty result instead.
type ErrQueryFailed struct {
	*BaseError
	Operation string
}

func NewQueryFailed(operation string, err error) *ErrQueryFailed {
	return &ErrQueryFailed{
		BaseError: NewBaseError(ErrorTypeQuery, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

func (e *ErrQueryFailed) Unwrap() error { return e.BaseError }

// Validation Errors

// ErrMissingMeetingID is returned when an analysis record has no meetingId
var ErrMissingMeetingID = NewBaseError(ErrorTypeValidation, "analysis missing meetingId", nil)

// ErrMissingTenantID is returned when an operation is attempted without a tenant
var ErrMissingTenantID = NewBaseError(ErrorTypeValidation, "tenant id is required", nil)

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

func (e *ErrConfigMissingRequired) Unwrap() error { return e.BaseError }

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		return baseErr.Type == errType
	}
	return false
}

// IsTimeout checks if an error is a storage/query timeout
func IsTimeout(err error) bool {
	var timeoutErr *ErrStorageTimeout
	return errors.As(err, &timeoutErr) || errors.Is(err, context.DeadlineExceeded)
}

// Package errors provides the standardized error taxonomy for the portal.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeRecordNotFound    ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeDuplicateID       ErrorCode = "DUPLICATE_ID"
	ErrCodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeArtifactFailed    ErrorCode = "ARTIFACT_GENERATION_FAILED"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code          ErrorCode `json:"code"`
	Message       string    `json:"message"`
	Details       string    `json:"details,omitempty"`
	MissingFields []string  `json:"missingFields,omitempty"`
	Retryable     bool      `json:"retryable"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable intake validation error.
func NewValidationFailedError(missingFields []string) *StandardError {
	return &StandardError{
		Code:          ErrCodeValidationFailed,
		Message:       "Application data validation failed",
		Details:       fmt.Sprintf("missing required fields: %s", strings.Join(missingFields, ", ")),
		MissingFields: missingFields,
		Retryable:     false,
		Timestamp:     time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error.
func NewRecordNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Application record not found",
		Details:   fmt.Sprintf("applicationId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates a non-retryable state machine error.
func NewInvalidTransitionError(from, action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Status transition not allowed",
		Details:   fmt.Sprintf("action %q is not valid from status %q", action, from),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateIDError creates a retryable id collision error. The lifecycle
// manager retries with a fresh id; this code never reaches a client.
func NewDuplicateIDError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateID,
		Message:   "Application id already exists",
		Details:   fmt.Sprintf("applicationId: %s", id),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError creates a retryable storage error.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Record store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactFailedError creates a retryable artifact generation error.
// The record itself stays durable; the receipt is regenerable.
func NewArtifactFailedError(id string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactFailed,
		Message:   "Receipt generation failed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", id, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a non-retryable auth gate error.
func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Authentication required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// HasCode reports whether err carries the given error code anywhere in its
// chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// AsStandard extracts a *StandardError from the chain, if present.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	ok := errors.As(err, &stdErr)
	return stdErr, ok
}

// HTTPStatus maps an error code to the HTTP status the boundary layer should
// respond with. Storage and artifact failures map to 500 and must be surfaced
// as generic messages, never with internal details.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the code is safe to surface verbatim.
func IsClientError(code ErrorCode) bool {
	return HTTPStatus(code) < http.StatusInternalServerError
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Status  int         `json:"-"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error. The wrapped error is kept for
// server-side logging only and never serialized to clients.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnauthorized     = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrAuthLookupFailed = New("AUTH_USER_LOOKUP_FAILED", http.StatusUnauthorized, "access token could not be resolved")
	ErrProfileNotFound  = New("PROFILE_NOT_FOUND", http.StatusForbidden, "no profile for authenticated user")
	ErrForbidden        = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound         = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict         = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation       = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	ErrInvalidStatusTransition       = New("INVALID_STATUS_TRANSITION", http.StatusConflict, "status transition not permitted")
	ErrPublishRequirementsIncomplete = New("PUBLISH_REQUIREMENTS_INCOMPLETE", http.StatusBadRequest, "assignment is missing required fields for publishing")
	ErrLateSubmissionNotAllowed      = New("LATE_SUBMISSION_NOT_ALLOWED", http.StatusBadRequest, "assignment is past due and does not accept late submissions")
	ErrResubmissionFeedbackRequired  = New("RESUBMISSION_FEEDBACK_REQUIRED", http.StatusBadRequest, "feedback is required when requesting a resubmission")
	ErrActionDetailsRequired         = New("REPORT_ACTION_DETAILS_REQUIRED", http.StatusBadRequest, "action details are required to resolve a report")

	// ErrCacheMiss signals an absent cache entry; never surfaced over HTTP.
	ErrCacheMiss = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of the error carrying field-level detail,
// typically validator output flattened for the client.
func WithDetails(err *Error, details interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

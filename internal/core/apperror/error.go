// Package apperror provides structured error handling for the catalog core.
// All errors crossing a package boundary must use AppError so callers and the
// HTTP layer can react to machine-readable codes instead of message text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by concern
const (
	// Infrastructure errors (5xx)
	CodeInternal  = "INTERNAL_ERROR"
	CodeTransport = "TRANSPORT_ERROR"

	// Caller input errors (400)
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// Key-construction validation errors (422)
	CodeIncompleteKey    = "INCOMPLETE_KEY"
	CodeUnknownDimension = "UNKNOWN_DIMENSION"
	CodeInvalidValue     = "INVALID_VALUE"

	// Authorization errors (401)
	CodeUnauthorized = "UNAUTHORIZED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Well-formed query, zero rows (404)
	CodeEmptyResult = "EMPTY_RESULT"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (offending field, allowed samples, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewInvalidArgument creates a malformed-input error (400)
func NewInvalidArgument(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidArgument,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewIncompleteKey creates an error for an assignment missing declared dimensions
func NewIncompleteKey(dataflow string, missing []string) *AppError {
	return &AppError{
		Code:       CodeIncompleteKey,
		Message:    "series key assignment does not cover all declared dimensions",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"dataflow": dataflow, "missing": missing},
	}
}

// NewUnknownDimension creates an error for an assignment naming undeclared dimensions
func NewUnknownDimension(dataflow string, extra []string) *AppError {
	return &AppError{
		Code:       CodeUnknownDimension,
		Message:    "series key assignment names dimensions the dataflow does not declare",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"dataflow": dataflow, "unknown": extra},
	}
}

// NewInvalidValue creates an error for a value outside a dimension's permitted set.
// allowedSample carries a bounded sample of permitted codes to keep responses small.
func NewInvalidValue(dimension, value string, allowedSample []string) *AppError {
	return &AppError{
		Code:       CodeInvalidValue,
		Message:    fmt.Sprintf("value %q is not permitted for dimension %s", value, dimension),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"dimension":      dimension,
			"value":          value,
			"allowed_sample": allowedSample,
		},
	}
}

// NewEmptyResult creates an error for a well-formed query returning zero rows (404).
// Reported rather than returned as an empty table: an empty result for a valid
// key usually indicates a date-range or filter mistake worth surfacing.
func NewEmptyResult(key string) *AppError {
	return &AppError{
		Code:       CodeEmptyResult,
		Message:    "query returned no observations",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"series_key": key},
	}
}

// NewTransport creates an opaque pass-through for collaborator failures (502)
func NewTransport(message string, err error) *AppError {
	return &AppError{
		Code:       CodeTransport,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsEmptyResult checks if error is CodeEmptyResult
func IsEmptyResult(err error) bool {
	return hasCode(err, CodeEmptyResult)
}

// IsTransport checks if error is CodeTransport
func IsTransport(err error) bool {
	return hasCode(err, CodeTransport)
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a record is missing or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for any failed authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadRequest is returned when a request body cannot be decoded.
	ErrBadRequest = errors.New("bad request")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// ValidationError carries field level messages, keyed by the JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge copies every message from other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// OrNil returns e as an error, or nil when it holds no messages.
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+strings.Join(e.Fields[field], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid is a shortcut for a single field failure.
func Invalid(field, message string) *ValidationError {
	e := NewValidationError()
	e.Add(field, message)
	return e
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ResponseFor returns the generic body for status, such as {"error":"not_found"}.
func ResponseFor(status int) ErrorResponse {
	return ErrorResponse{Error: strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))}
}

// HTTPError represents an HTTP error with status code and the body to render.
type HTTPError struct {
	StatusCode int
	Body       any
}

func (e *HTTPError) Error() string {
	return http.StatusText(e.StatusCode)
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, body any) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Body: body}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case As(err, &verr):
		return NewHTTPError(http.StatusUnprocessableEntity, verr.Fields)
	case Is(err, ErrDuplicate):
		return NewHTTPError(http.StatusUnprocessableEntity, Invalid("base", "has already been taken").Fields)
	case Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ResponseFor(http.StatusNotFound))
	case Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ResponseFor(http.StatusUnauthorized))
	case Is(err, ErrBadRequest):
		return NewHTTPError(http.StatusBadRequest, ResponseFor(http.StatusBadRequest))
	default:
		return NewHTTPError(http.StatusInternalServerError, ResponseFor(http.StatusInternalServerError))
	}
}

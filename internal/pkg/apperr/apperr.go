// Package apperr defines the error kinds every handler maps to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel kinds. Wrap them (directly or through *Error) and test with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrPersistence      = errors.New("persistence error")
	ErrEmailDispatch    = errors.New("email dispatch error")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrUnavailable      = errors.New("service unavailable")
)

// Error is a classified error with an optional list of offending fields.
type Error struct {
	Kind    error
	Message string
	Fields  []string
	// Missing marks validation errors caused by absent required fields.
	Missing bool
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Is reports kind equality so errors.Is(err, ErrValidation) works through *Error.
func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error naming the offending fields.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// MissingFields builds a validation error for absent required fields.
func MissingFields(fields ...string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
		Missing: true,
	}
}

// NotFound builds a not-found error for the given entity.
func NotFound(entity string) *Error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

// Persistence wraps a store failure.
func Persistence(op string, err error) *Error {
	return &Error{Kind: ErrPersistence, Message: op, Err: err}
}

// EmailDispatch wraps an email relay failure.
func EmailDispatch(op string, err error) *Error {
	return &Error{Kind: ErrEmailDispatch, Message: op, Err: err}
}

// Conflict builds a conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Status maps an error to the HTTP status code of its kind.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldsOf returns the offending fields recorded on err, if any.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// IsMissingFields reports whether err was built by MissingFields.
func IsMissingFields(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Missing
}

// PublicMessage returns the caller-facing message without the wrapped cause.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return e.Kind.Error()
	}
	return "internal server error"
}

// Package apperr classifies service errors so handlers can map them to
// HTTP responses without inspecting storage-level error types.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindForbidden
	KindNotFound
	KindConflict
	KindDependency
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Dependency(message string, err error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}

// Status returns the HTTP status code for an error. Unclassified errors
// are treated as dependency failures.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

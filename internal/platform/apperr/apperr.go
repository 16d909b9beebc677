// Package apperr is the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindPrecondition
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// FieldError names one invalid input field. Path holds the JSON path
// segments, e.g. ["items", "0", "rate"].
type FieldError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Error carries a kind, a client-safe message and optionally the cause.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Field builds a FieldError.
func Field(message string, path ...string) FieldError {
	return FieldError{Path: path, Message: message}
}

const ValidationMessage = "Validation error"

func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: ValidationMessage, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Precondition is a request that is well-formed but refers to state that
// does not exist, such as a bill for an unknown patient.
func Precondition(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindPrecondition, Message: message, Fields: fields}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// Internal wraps an unexpected failure behind a client-safe message.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Wrap returns err unchanged if it already is an *Error, otherwise wraps it as
// an internal error with the fallback message.
func Wrap(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Internal(fallback, err)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps an error to its response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPrecondition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

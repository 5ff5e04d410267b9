// Package apperr defines the error kinds surfaced by TeamHome workflows.
// Every failure a caller can see carries a Kind so the client can tell
// "upgrade to invite more members" apart from "that team no longer exists".
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a workflow failure
type Kind string

const (
	NotFound         Kind = "NOT_FOUND"
	Forbidden        Kind = "FORBIDDEN"
	InvalidInput     Kind = "INVALID_INPUT"
	CapacityExceeded Kind = "CAPACITY_EXCEEDED"
	PaymentError     Kind = "PAYMENT_ERROR"
	Conflict         Kind = "CONFLICT"
	Internal         Kind = "INTERNAL"
)

// CodeNotPremium is the client-facing code for the free-tier member limit
const CodeNotPremium = "NOT_PREMIUM"

// Error is a workflow error with a kind, a client-facing code and message
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind. The code defaults to the kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: message}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: message, Err: err}
}

// WithCode overrides the client-facing code
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// KindOf returns the kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err is of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to the HTTP status used by the API handlers
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case InvalidInput:
		return http.StatusBadRequest
	case CapacityExceeded, PaymentError:
		return http.StatusPaymentRequired
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Response returns the HTTP status and JSON body for err. Internal errors
// never leak their cause to the client.
func Response(err error) (int, map[string]string) {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == Internal {
		msg := "Internal server error"
		if appErr != nil && appErr.Message != "" {
			msg = appErr.Message
		}
		return http.StatusInternalServerError, map[string]string{"error": msg, "code": string(Internal)}
	}
	return HTTPStatus(appErr.Kind), map[string]string{"error": appErr.Message, "code": appErr.Code}
}

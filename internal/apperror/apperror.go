// Package apperror defines the error kinds surfaced to API clients.  Handlers
// and middleware return *Error values; the centralized echo error handler
// maps the kind to an HTTP status and a JSON body.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the client.
type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	default:
		return "UnhandledError"
	}
}

// Status returns the HTTP status code for the kind.  Authorization failures
// answer 401 rather than 403, and conflicts answer 400; clients of this API
// depend on both.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication, KindAuthorization:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a client-facing error.  Message is safe to show; Err is the
// underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Authorization(msg string) *Error { return &Error{Kind: KindAuthorization, Message: msg} }

// Authentication builds a 401 error; cause may be nil.
func Authentication(msg string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: msg, Err: cause}
}

// Internal wraps an unexpected failure.  The client only ever sees a generic
// message for it outside test mode.
func Internal(err error) *Error {
	return &Error{Kind: KindUnhandled, Message: "Internal Server Error", Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

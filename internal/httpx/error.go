// internal/httpx/error.go
//
// Typed API errors.
//
// Context
// -------
// Every failure the pipeline can produce is raised as an *Error carrying the
// HTTP status it must map to.  Handlers and middleware return or write these
// directly; the responder in respond.go is the single place that serialises
// them.  Status codes and check ordering are a contract (clients and tests
// depend on them); message wording is not.
//
// Notes
// -----
// • 401 means "prove who you are"; 403 means "you are known, and the answer
//   is no".  A valid token for the wrong tenant is 403, never 401.
// • Oxford commas, two spaces after periods.

package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an HTTP status and a stable machine code.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.err }

// Wrap attaches a cause without changing what the client sees.
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, err: err}
}

//
// Constructors, one per taxonomy bucket.
//

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "bad_request", Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal", Message: msg}
}

// FromError coerces any error into an *Error.  Unknown errors become an
// opaque 500 so internal details never leak into a response body.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("internal server error").Wrap(err)
}

// Package errs holds the error kinds shared by the core and the adapters.
// Every error returned by a use case either is one of these kinds or wraps
// an unexpected failure that the HTTP layer reports as ErrInternal.
package errs

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("access denied")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error carrying msg as its text and matching kind under errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Validation is shorthand for New(ErrValidation, msg).
func Validation(msg string) error {
	return New(ErrValidation, msg)
}

// NotFound is shorthand for New(ErrNotFound, msg).
func NotFound(msg string) error {
	return New(ErrNotFound, msg)
}

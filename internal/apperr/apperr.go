// Package apperr defines the error kinds reported to API callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller
type Kind string

const (
	Unauthenticated  Kind = "unauthenticated"
	InvalidArgument  Kind = "invalid-argument"
	PermissionDenied Kind = "permission-denied"
	AlreadyExists    Kind = "already-exists"
	NotFound         Kind = "not-found"
	Unavailable      Kind = "unavailable"
	Internal         Kind = "internal"
)

// Error is an error with a caller-facing kind and message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or Internal if err carries none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

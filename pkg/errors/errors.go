// Package errors provides the error type used by the status packages
// across this repository.
//
// The Error type carries a fixed message and may wrap a causing error,
// so sentinel values declared once (e.g. status.ErrNotFound) can be
// enriched with context at the call site while remaining matchable
// with errors.Is.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New builds an Error with a message and no cause.
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is an error with an optional wrapped cause.
type Error struct {
	msg string
	err error
}

// Error returns the message for this error.
func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap returns a copy of this error wrapping a cause.
//
// Sentinels stay immutable: wrapping does not mutate the receiver.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err}
}

// Is reports whether this error matches the target sentinel.
func (e *Error) Is(target error) bool {
	if o, ok := target.(*Error); ok {
		return e == o || e.msg == o.msg
	}
	return false
}

// Is reports whether any error in err's chain matches target
// (shortcut to the standard library).
func Is(err, target error) bool {
	return stderr.Is(err, target)
}

// As finds the first error in err's chain matching target's type
// (shortcut to the standard library).
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

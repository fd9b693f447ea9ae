// Package apperr defines the error kinds shared by all feature packages.
// Feature packages declare their own sentinel errors on top of these kinds so
// that callers can match either the precise error or its kind with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrStorage      = errors.New("storage error")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// New returns an error with the given message that matches kind.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return New(ErrNotFound, fmt.Sprintf(format, args...))
}

func InvalidState(format string, args ...any) error {
	return New(ErrInvalidState, fmt.Sprintf(format, args...))
}

type storageError struct {
	msg string
	err error
}

func (e *storageError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorage, e.err}
}

// Storage tags a driver error as a storage failure while keeping it in the chain.
func Storage(msg string, err error) error {
	return &storageError{msg: msg, err: err}
}

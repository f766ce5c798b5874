package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrDuplicateAccount = errors.New("username already exists")
	ErrAuthentication   = errors.New("invalid username or password")
	ErrAccountNotFound  = errors.New("account not found")
	ErrIO               = errors.New("i/o error")
)

// ValidationError reports a malformed amount, kind, date or other draft field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IOError wraps a failure to read or write durable storage or an export destination.
type IOError struct {
	Op  string
	Err error
}

func NewIOError(op string, err error) error {
	return &IOError{Op: op, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

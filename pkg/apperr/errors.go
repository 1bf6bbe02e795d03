// Package apperr classifies failures so callers branch on meaning instead of
// matching error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindBackend    Kind = "backend"
	KindIntegrity  Kind = "integrity"
	KindInternal   Kind = "internal"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrBackend    = errors.New("backend unavailable")
	ErrIntegrity  = errors.New("integrity violation")
	ErrInternal   = errors.New("internal error")
)

// Error carries the failure kind, the operation that produced it and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrBackend:
		return e.Kind == KindBackend
	case ErrIntegrity:
		return e.Kind == KindIntegrity
	case ErrInternal:
		return e.Kind == KindInternal
	}
	return false
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op string, err error) error { return newError(KindValidation, op, err) }
func NotFound(op string, err error) error   { return newError(KindNotFound, op, err) }
func Backend(op string, err error) error    { return newError(KindBackend, op, err) }
func Integrity(op string, err error) error  { return newError(KindIntegrity, op, err) }
func Internal(op string, err error) error   { return newError(KindInternal, op, err) }

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

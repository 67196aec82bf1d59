// Package errors is the single import for error handling in blogauth.
// It forwards to the standard library for inspection and to pkg/errors for
// stack-carrying construction.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

func New(text string) error {
	return pkgerrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// IsAny reports whether err matches one of targets.
func IsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if stderrors.Is(err, target) {
			return true
		}
	}

	return false
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Find returns the first error of type T in err's chain.
func Find[T error](err error) (T, bool) {
	var target T
	ok := stderrors.As(err, &target)

	return target, ok
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

func WithMessage(err error, message string) error {
	return pkgerrors.WithMessage(err, message)
}

func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}

// Cause unwraps pkg/errors annotations down to the root error.
//
//nolint:wrapcheck
func Cause(err error) error {
	return pkgerrors.Cause(err)
}

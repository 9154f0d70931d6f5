// Package errdefs classifies failures into the three kinds callers need to
// tell apart: preconditions that failed before any external call, failures of
// an external collaborator mid-sequence, and bounded waits that expired.
//
// Errors are classified by wrapping (Precondition, ExternalFailure, Timeout)
// and recognized with the matching predicates, which see through %w chains.
package errdefs

import (
	"errors"
	"fmt"
)

// ErrPrecondition is implemented by errors detected before any external call
// was made. Nothing has been mutated when such an error is returned.
type ErrPrecondition interface {
	Precondition()
}

// ErrExternalFailure is implemented by errors from an external collaborator
// (container engine, cluster-node runtime, cluster API, remote manifest
// source). Earlier steps of the sequence may already have taken effect.
type ErrExternalFailure interface {
	ExternalFailure()
}

// ErrTimeout is implemented by errors from bounded waits that expired before
// the observed resource converged.
type ErrTimeout interface {
	Timeout()
}

type errPrecondition struct{ error }

func (errPrecondition) Precondition() {}

func (e errPrecondition) Unwrap() error { return e.error }

type errExternalFailure struct{ error }

func (errExternalFailure) ExternalFailure() {}

func (e errExternalFailure) Unwrap() error { return e.error }

type errTimeout struct{ error }

func (errTimeout) Timeout() {}

func (e errTimeout) Unwrap() error { return e.error }

// Precondition marks err as a precondition failure. Returns nil for nil err.
func Precondition(err error) error {
	if err == nil {
		return nil
	}

	return errPrecondition{err}
}

// Preconditionf creates a precondition failure from a format string.
func Preconditionf(format string, args ...any) error {
	return errPrecondition{fmt.Errorf(format, args...)}
}

// ExternalFailure marks err as an external collaborator failure. Returns nil
// for nil err.
func ExternalFailure(err error) error {
	if err == nil {
		return nil
	}

	return errExternalFailure{err}
}

// ExternalFailuref creates an external collaborator failure from a format string.
func ExternalFailuref(format string, args ...any) error {
	return errExternalFailure{fmt.Errorf(format, args...)}
}

// Timeout marks err as a bounded-wait expiry. Returns nil for nil err.
func Timeout(err error) error {
	if err == nil {
		return nil
	}

	return errTimeout{err}
}

// Timeoutf creates a bounded-wait expiry error from a format string.
func Timeoutf(format string, args ...any) error {
	return errTimeout{fmt.Errorf(format, args...)}
}

// IsPrecondition reports whether any error in err's chain is a precondition
// failure.
func IsPrecondition(err error) bool {
	var target ErrPrecondition

	return errors.As(err, &target)
}

// IsExternalFailure reports whether any error in err's chain is an external
// collaborator failure.
func IsExternalFailure(err error) bool {
	var target ErrExternalFailure

	return errors.As(err, &target)
}

// IsTimeout reports whether any error in err's chain is a bounded-wait expiry.
func IsTimeout(err error) bool {
	var target ErrTimeout

	return errors.As(err, &target)
}

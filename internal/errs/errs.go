// Package errs defines the error taxonomy shared by the client core.
//
// Every error that crosses a component boundary is an *Error carrying a Kind.
// Callers branch on the kind with Is, and render Error() to the user.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies where an error originated and how it must be handled.
type Kind string

const (
	// KindValidation is user-correctable input. It never reaches remote I/O.
	KindValidation Kind = "validation failed"
	// KindAuth is a sign-in or sign-out failure.
	KindAuth Kind = "authentication failed"
	// KindProfile is a failed read or write of the user profile.
	KindProfile Kind = "profile error"
	// KindSubscription is a live feed that could not start or was interrupted.
	KindSubscription Kind = "subscription failed"
	// KindMutation is a failed create, update or delete.
	KindMutation Kind = "mutation failed"
	// KindLogAppend is an audit entry lost after a successful mutation.
	KindLogAppend Kind = "log append failed"
	// KindPermission is an action the current actor may not perform.
	KindPermission Kind = "permission denied"
)

// ErrTimeout is the cause recorded when a remote call exceeds its deadline.
var ErrTimeout = errors.New("remote call timed out")

// Error is a classified error. Op names the operation, e.g. "add-contributor".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error of the given kind wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation returns a KindValidation error with a user-facing message.
func Validation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: errors.New(msg)}
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Package errors provides the typed errors used across gqllog's supporting packages.
// The query logger itself never returns errors; these cover configuration
// loading and observability setup, where a caller has to decide whether to give up.
//
// Example usage:
//
//	if cfg.GraphQL.Path == "" {
//	    return errors.NewInvalidInput("graphql.path", "must not be empty")
//	}
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an Error.
type Kind uint8

const (
	// Permanent failures do not go away on their own, such as a metric that
	// cannot be registered or an exporter that cannot be built.
	Permanent Kind = iota + 1

	// InvalidInput marks a bad value for a named setting or argument.
	InvalidInput
)

func (k Kind) String() string {
	switch k {
	case Permanent:
		return "permanent"
	case InvalidInput:
		return "invalid input"
	}
	return "unknown"
}

// Error carries a Kind, the offending field for InvalidInput, and an
// optional cause.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Kind == InvalidInput {
		msg = fmt.Sprintf("invalid input for %s: %s", e.Field, e.Msg)
		if e.Err != nil {
			return fmt.Sprintf("%s (%v)", msg, e.Err)
		}
		return msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewPermanent returns a Permanent error. cause may be nil.
func NewPermanent(msg string, cause error) error {
	return &Error{Kind: Permanent, Msg: msg, Err: cause}
}

// NewInvalidInput returns an InvalidInput error for field.
func NewInvalidInput(field, msg string) error {
	return &Error{Kind: InvalidInput, Field: field, Msg: msg}
}

// KindOf returns the Kind of the outermost Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsPermanent reports whether err is classified Permanent.
func IsPermanent(err error) bool { return KindOf(err) == Permanent }

// IsInvalidInput reports whether err is classified InvalidInput.
func IsInvalidInput(err error) bool { return KindOf(err) == InvalidInput }

// Wrap annotates err with msg. The result keeps err's Kind and field;
// untyped errors become Permanent.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	wrapped := &Error{Kind: Permanent, Msg: msg, Err: err}
	var e *Error
	if stderrors.As(err, &e) && e.Kind == InvalidInput {
		wrapped.Kind = InvalidInput
		wrapped.Field = e.Field
	}
	return wrapped
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

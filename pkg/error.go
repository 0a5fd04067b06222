package pkg

import (
	"fmt"
	"slices"
	"strings"
)

// Error is an ordered chain of errors, innermost first. It aggregates
// failures that do not stop processing, such as every unreadable input of a
// command that accepts many files.
type Error []error

// ErrInputs is the outermost error of a chain collected from several inputs.
var ErrInputs = MakeErrorf("one or more inputs failed")

// MakeError flattens errs into a chain. Nil errors are skipped and wrapped
// errors contribute their whole chain.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf returns a chain holding a single formatted error.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Collect returns nil when every error in errs is nil, and otherwise the
// non-nil errors as a chain wrapped by [ErrInputs].
func Collect(errs ...error) error {
	var failed Error

	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}

	if len(failed) == 0 {
		return nil
	}

	return failed.Wrap(ErrInputs...)
}

// Error joins the messages of the chain with ": ". A chain built by
// [Collect] lists its inputs after the [ErrInputs] message instead,
// separated by "; ".
func (e Error) Error() string {
	if n := len(e); n > 1 && e[n-1] == ErrInputs[0] {
		return ErrInputs[0].Error() + ": " + join(e[:n-1], "; ")
	}

	return join(e, ": ")
}

func join(errs []error, sep string) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, sep)
}

// Wrap appends errors to the chain.
func (e Error) Wrap(err ...error) Error {
	return append(e[:len(e):len(e)], err...)
}

// Wrapf appends a formatted error to the chain.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors of the chain for [errors.Is] and [errors.As].
func (e Error) Unwrap() []error { return e }

// Is reports whether target is a single-error chain, such as a sentinel made
// with [MakeErrorf], whose error appears in e.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)

	return ok && len(t) == 1 && slices.Contains(e, t[0])
}

// UnwrapErrors flattens the chain of err, innermost first, ending with err
// itself.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}

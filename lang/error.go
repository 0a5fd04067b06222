package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Structural errors abort a render before any output is produced.
var (
	ErrCyclicTree  = NewError("syntax tree contains a cycle")
	ErrNodeIndex   = NewError("child index out of range")
	ErrNoSignature = NewError("operand types match no signature")
	ErrEmptyTree   = NewError("syntax tree is empty")
)

// Data and loader errors.
var (
	ErrTypeMismatch    = NewError("parameter type mismatch")
	ErrInvalidModel    = NewError("invalid model data")
	ErrInvalidTree     = NewError("invalid syntax tree document")
	ErrInvalidBinding  = NewError("invalid binding")
	ErrUnsupportedData = NewError("unsupported data format")
	ErrReadInput       = NewError("failed to read input")
)

// Error is an error with a message, an optional cause and structured logging
// attributes. Sentinels are compared with [errors.Is]; [Error.With] and
// [Error.Wrap] derive new values that still match their sentinel.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	base  *Error
}

// NewError returns a sentinel error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it when it is not one already.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is matches e against the sentinel it was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (e == t || (e.base != nil && e.base == t))
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs, base: e.root()}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
		base:  e.root(),
	}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// StructureError is returned for trees that cannot be evaluated. It records
// the offending node, its span and the nodes that point at it so the
// template can be highlighted.
type StructureError struct {
	Node     int
	Span     Span
	Pointers []int
	Detail   string

	err *Error
}

func (e *StructureError) Error() string {
	msg := e.err.Error() + " at node " + strconv.Itoa(e.Node) + " " +
		e.Span.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *StructureError) Unwrap() error { return e.err }

// LogValue implements [slog.LogValuer].
func (e *StructureError) LogValue() slog.Value { return e.err.LogValue() }

func newStructureError(base *Error, tree Tree, node int) *StructureError {
	se := &StructureError{Node: node}
	if node >= 0 && node < tree.Len() {
		se.Span = tree.Nodes[node].Span
		se.Pointers = pointersTo(tree, node)
	}

	se.err = base.With(
		slog.Int("node", node),
		slog.String("span", se.Span.String()),
	)

	return se
}

func pointersTo(tree Tree, node int) []int {
	var p []int

	for i, n := range tree.Nodes {
		if n.Left == node || n.Middle == node || n.Right == node {
			p = append(p, i)
		}
	}

	return p
}

package lang

import (
	"log/slog"
	"slices"
	"strconv"
)

// Value is the closed set of values a [Parameter] can hold: [Number], [Bool],
// [String], *[Model] and [Enumerable].
type Value interface {
	Kind() ValueKind
	value()
}

// ValueKind discriminates the variants of [Value].
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindBoolean
	KindText
	KindModel
	KindEnumerable
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Bool"
	case KindText:
		return "String"
	case KindModel:
		return "Model"
	case KindEnumerable:
		return "Enumerable"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Type maps k to the static type used by the evaluator. Models and
// enumerables have no scalar type and map to [TypeNone].
func (k ValueKind) Type() ReturnType {
	switch k {
	case KindNumber:
		return TypeNumber
	case KindBoolean:
		return TypeBool
	case KindText:
		return TypeString
	default:
		return TypeNone
	}
}

type (
	// Number is the single numeric representation; integer literals and
	// integer model data are widened to it.
	Number float64
	Bool   bool
	String string
	// Enumerable is an ordered collection of models.
	Enumerable []*Model
)

func (Number) Kind() ValueKind     { return KindNumber }
func (Bool) Kind() ValueKind       { return KindBoolean }
func (String) Kind() ValueKind     { return KindText }
func (*Model) Kind() ValueKind     { return KindModel }
func (Enumerable) Kind() ValueKind { return KindEnumerable }

func (Number) value()     {}
func (Bool) value()       {}
func (String) value()     {}
func (*Model) value()     {}
func (Enumerable) value() {}

// Parameter is a typed cell in a [Model]. Its kind is fixed at construction;
// [Parameter.Set] refuses values of any other kind.
type Parameter struct {
	v Value
}

// NewParameter returns a parameter holding v. Enumerable values are copied.
func NewParameter(v Value) *Parameter {
	if e, ok := v.(Enumerable); ok {
		v = slices.Clone(e)
	}

	return &Parameter{v: v}
}

func NewNumber(v float64) *Parameter { return NewParameter(Number(v)) }
func NewBool(v bool) *Parameter      { return NewParameter(Bool(v)) }
func NewString(v string) *Parameter  { return NewParameter(String(v)) }

// NewModelParameter returns a parameter holding a nested model.
func NewModelParameter(m *Model) *Parameter { return NewParameter(m) }

// NewEnumerable returns a parameter holding a copy of models.
func NewEnumerable(models ...*Model) *Parameter {
	return NewParameter(Enumerable(models))
}

// Kind returns the kind of the held value.
func (p *Parameter) Kind() ValueKind { return p.v.Kind() }

// Type returns the static type of the held value.
func (p *Parameter) Type() ReturnType { return p.v.Kind().Type() }

// Value returns the held value.
func (p *Parameter) Value() Value { return p.v }

// Set replaces the held value. It fails with [ErrTypeMismatch] when v is of a
// different kind.
func (p *Parameter) Set(v Value) error {
	if v.Kind() != p.v.Kind() {
		return ErrTypeMismatch.With(
			slog.String("have", p.v.Kind().String()),
			slog.String("want", v.Kind().String()),
		)
	}

	if e, ok := v.(Enumerable); ok {
		v = slices.Clone(e)
	}

	p.v = v

	return nil
}

func (p *Parameter) Number() (float64, bool) {
	v, ok := p.v.(Number)

	return float64(v), ok
}

func (p *Parameter) Bool() (bool, bool) {
	v, ok := p.v.(Bool)

	return bool(v), ok
}

func (p *Parameter) Text() (string, bool) {
	v, ok := p.v.(String)

	return string(v), ok
}

func (p *Parameter) Model() (*Model, bool) {
	v, ok := p.v.(*Model)

	return v, ok
}

func (p *Parameter) Enumerable() (Enumerable, bool) {
	v, ok := p.v.(Enumerable)

	return v, ok
}

func (p *Parameter) clone() *Parameter {
	switch v := p.v.(type) {
	case *Model:
		return &Parameter{v: v.Clone()}
	case Enumerable:
		e := make(Enumerable, len(v))
		for i, m := range v {
			e[i] = m.Clone()
		}

		return &Parameter{v: e}
	default:
		return &Parameter{v: v}
	}
}

// zeroOf returns the default value of a scalar type, used when a template
// introduces a variable by assignment.
func zeroOf(t ReturnType) (Value, bool) {
	switch t {
	case TypeNumber:
		return Number(0), true
	case TypeBool:
		return Bool(false), true
	case TypeString:
		return String(""), true
	default:
		return nil, false
	}
}

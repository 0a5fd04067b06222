package lang

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
)

// Bind evaluates source as an expr-lang expression over the parameters of m
// and binds the result to name in m. Nested models are visible as maps and
// enumerables as lists. The result must be a number, bool or string.
func Bind(m *Model, name, source string) error {
	env := m.Native()

	prog, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrInvalidBinding.Wrap(err).With(slog.String("name", name))
	}

	out, err := expr.Run(prog, env)
	if err != nil {
		return ErrInvalidBinding.Wrap(err).With(slog.String("name", name))
	}

	var p *Parameter

	if f, ok := asFloat(out); ok {
		p = NewNumber(f)
	} else {
		switch v := out.(type) {
		case bool:
			p = NewBool(v)
		case string:
			p = NewString(v)
		default:
			return ErrInvalidBinding.With(
				slog.String("name", name),
				slog.String("type", fmt.Sprintf("%T", out)),
			)
		}
	}

	m.Set(name, p)

	return nil
}

// ParseBinding splits a "name=expression" assignment.
func ParseBinding(s string) (name, source string, err error) {
	name, source, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || name == "" {
		return "", "", ErrInvalidBinding.With(slog.String("binding", s))
	}

	return name, source, nil
}

// Native returns m as plain Go values: maps for models, slices of maps for
// enumerables and float64, bool or string for scalars.
func (m *Model) Native() map[string]any {
	out := make(map[string]any, m.Len())

	for name, p := range m.All() {
		out[name] = nativeOf(p.Value())
	}

	return out
}

func nativeOf(v Value) any {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case Bool:
		return bool(v)
	case String:
		return string(v)
	case *Model:
		return v.Native()
	case Enumerable:
		items := make([]any, len(v))
		for i, m := range v {
			items[i] = m.Native()
		}

		return items
	default:
		return nil
	}
}

package lang

import (
	"iter"
	"slices"
)

// Model is an ordered mapping of unique names to parameters. Iteration
// follows insertion order.
type Model struct {
	names  []string
	params map[string]*Parameter
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{params: make(map[string]*Parameter)}
}

// Set binds name to p, replacing any previous binding in place. It returns m
// to allow chaining.
func (m *Model) Set(name string, p *Parameter) *Model {
	if m.params == nil {
		m.params = make(map[string]*Parameter)
	}

	if _, ok := m.params[name]; !ok {
		m.names = append(m.names, name)
	}

	m.params[name] = p

	return m
}

// Get returns the parameter bound to name.
func (m *Model) Get(name string) (*Parameter, bool) {
	if m == nil {
		return nil, false
	}

	p, ok := m.params[name]

	return p, ok
}

// Len returns the number of parameters in m.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}

	return len(m.names)
}

// Names returns the parameter names in insertion order.
func (m *Model) Names() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.names)
}

// All iterates over the parameters of m in insertion order.
func (m *Model) All() iter.Seq2[string, *Parameter] {
	return func(yield func(string, *Parameter) bool) {
		if m == nil {
			return
		}

		for _, name := range m.names {
			if !yield(name, m.params[name]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of m. Rendering mutates parameters that a
// template assigns to, so concurrent renders of one model each need a clone.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}

	c := &Model{
		names:  slices.Clone(m.names),
		params: make(map[string]*Parameter, len(m.params)),
	}

	for name, p := range m.params {
		c.params[name] = p.clone()
	}

	return c
}

// Wrap turns each parameter into a single-field model binding it to name.
// Collections of scalars are exposed to templates this way.
func Wrap(name string, params ...*Parameter) Enumerable {
	e := make(Enumerable, len(params))
	for i, p := range params {
		e[i] = NewModel().Set(name, p)
	}

	return e
}

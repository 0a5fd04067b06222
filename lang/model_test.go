package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Order(t *testing.T) {
	m := NewModel().
		Set("zeta", NewNumber(1)).
		Set("alpha", NewBool(true)).
		Set("mid", NewString("x"))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Names())
	assert.Equal(t, 3, m.Len())

	var names []string
	for name := range m.All() {
		names = append(names, name)
	}

	assert.Equal(t, m.Names(), names)
}

func TestModel_SetReplacesInPlace(t *testing.T) {
	m := NewModel().Set("a", NewNumber(1)).Set("b", NewNumber(2))
	m.Set("a", NewString("one"))

	assert.Equal(t, []string{"a", "b"}, m.Names())

	p, ok := m.Get("a")
	require.True(t, ok)

	s, ok := p.Text()
	require.True(t, ok)
	assert.Equal(t, "one", s)
}

func TestModel_Nil(t *testing.T) {
	var m *Model

	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Names())
	assert.Nil(t, m.Clone())

	for range m.All() {
		t.Fatal("nil model yielded a parameter")
	}
}

func TestModel_Clone(t *testing.T) {
	inner := NewModel().Set("n", NewNumber(1))
	m := NewModel().
		Set("user", NewModelParameter(inner)).
		Set("items", NewEnumerable(inner)).
		Set("flag", NewBool(false))

	c := m.Clone()

	p, _ := inner.Get("n")
	require.NoError(t, p.Set(Number(9)))

	cu, _ := c.Get("user")
	cm, _ := cu.Model()
	cn, _ := cm.Get("n")
	v, _ := cn.Number()
	assert.InDelta(t, 1, v, 0)

	ci, _ := c.Get("items")
	ce, _ := ci.Enumerable()
	require.Len(t, ce, 1)
	assert.NotSame(t, inner, ce[0])

	cf, _ := c.Get("flag")
	require.NoError(t, cf.Set(Bool(true)))

	mf, _ := m.Get("flag")
	b, _ := mf.Bool()
	assert.False(t, b)
}

func TestParameter_Set(t *testing.T) {
	p := NewNumber(1)

	require.NoError(t, p.Set(Number(2)))

	v, ok := p.Number()
	require.True(t, ok)
	assert.InDelta(t, 2, v, 0)

	err := p.Set(String("two"))
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, KindNumber, p.Kind())
}

func TestParameter_Accessors(t *testing.T) {
	p := NewString("x")

	_, ok := p.Number()
	assert.False(t, ok)
	_, ok = p.Bool()
	assert.False(t, ok)
	_, ok = p.Model()
	assert.False(t, ok)
	_, ok = p.Enumerable()
	assert.False(t, ok)

	assert.Equal(t, TypeString, p.Type())
	assert.Equal(t, TypeNone, NewModelParameter(NewModel()).Type())
	assert.Equal(t, "Enumerable", NewEnumerable().Kind().String())
}

func TestNewEnumerable_Copies(t *testing.T) {
	models := []*Model{NewModel(), NewModel()}
	p := NewEnumerable(models...)

	models[0] = nil

	e, ok := p.Enumerable()
	require.True(t, ok)
	assert.NotNil(t, e[0])

	require.NoError(t, p.Set(Enumerable(models)))
	models[1] = nil

	e, _ = p.Enumerable()
	assert.NotNil(t, e[1])
}

func TestWrap(t *testing.T) {
	e := Wrap("v", NewNumber(1), NewString("b"))
	require.Len(t, e, 2)

	for _, m := range e {
		assert.Equal(t, []string{"v"}, m.Names())
	}
}

// ModelStack Tests
// ============================================================================

func TestModelStack_Lookup(t *testing.T) {
	root := NewModel().Set("a", NewNumber(1)).Set("b", NewNumber(1))
	s := NewModelStack(root)

	inner := NewModel().Set("a", NewNumber(2))
	scope := s.Push(inner)

	p, ok := s.Lookup("a")
	require.True(t, ok)
	v, _ := p.Number()
	assert.InDelta(t, 2, v, 0)

	p, ok = s.Lookup("b")
	require.True(t, ok)
	v, _ = p.Number()
	assert.InDelta(t, 1, v, 0)

	_, ok = s.Lookup("c")
	assert.False(t, ok)

	assert.Same(t, inner, s.Top())
	assert.Same(t, root, s.Root())
	assert.Equal(t, 2, s.Depth())

	scope.Pop()

	assert.Same(t, root, s.Top())
	assert.Equal(t, 1, s.Depth())
}

func TestModelStack_Scopes(t *testing.T) {
	root, a, b := NewModel(), NewModel(), NewModel()
	s := NewModelStack(root)
	sa := s.Push(a)
	sb := s.Push(b)

	var got []*Model
	for _, m := range s.Scopes() {
		got = append(got, m)
	}

	require.Len(t, got, 3)
	assert.Same(t, b, got[0])
	assert.Same(t, a, got[1])
	assert.Same(t, root, got[2])

	sb.Pop()
	sa.Pop()
}

func TestModelStack_Hoist(t *testing.T) {
	root := NewModel()
	s := NewModelStack(root)

	func() {
		defer s.Push(NewModel()).Pop()

		s.Hoist("count", NewNumber(3))
	}()

	p, ok := s.Lookup("count")
	require.True(t, ok)
	v, _ := p.Number()
	assert.InDelta(t, 3, v, 0)
	assert.Equal(t, []string{"count"}, root.Names())
}

func TestScope_PopUnbalanced(t *testing.T) {
	s := NewModelStack(NewModel())
	outer := s.Push(NewModel())
	inner := s.Push(NewModel())

	assert.Panics(t, outer.Pop, "pop out of order")

	inner.Pop()
	outer.Pop()

	assert.Panics(t, outer.Pop, "pop twice")
	assert.Panics(t, Scope{}.Pop, "zero scope")
}

package lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Node Tests
// ============================================================================

func TestParseNodeKind(t *testing.T) {
	for k := range kindCount {
		got, ok := ParseNodeKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseNodeKind(%q) = %v, %v; want %v", k.String(), got, ok, k)
		}
	}

	if _, ok := ParseNodeKind("Loop"); ok {
		t.Error("ParseNodeKind accepted an unknown name")
	}
}

func TestSpan_Text(t *testing.T) {
	const src = "Hello World"

	tests := []struct {
		name string
		span Span
		want string
	}{
		{"inside", Span{6, 11}, "World"},
		{"empty", Span{3, 3}, ""},
		{"past end", Span{6, 40}, "World"},
		{"before start", Span{-2, 5}, "Hello"},
		{"inverted", Span{5, 2}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.span.Text(src))
		})
	}
}

func TestNode_Children(t *testing.T) {
	n := Node{Left: 3, Middle: None, Right: 1}
	assert.Equal(t, []int{1, 3}, n.Children())

	n = Node{Left: 3, Middle: 2, Right: 1}
	assert.Equal(t, []int{1, 2, 3}, n.Children())

	assert.Empty(t, Node{Left: None, Middle: None, Right: None}.Children())
}

func TestBuilder_Sequence(t *testing.T) {
	b := NewBuilder()
	a, c, d := b.Text(0, 1), b.Text(1, 2), b.Text(2, 3)

	head := b.Sequence(a, c, d)
	tree := b.Tree()

	assert.Equal(t, d, head)
	assert.Equal(t, c, tree.Nodes[d].Right)
	assert.Equal(t, a, tree.Nodes[c].Right)
	assert.Equal(t, None, tree.Nodes[a].Right)
	assert.Equal(t, None, b.Sequence())
}

// Verify Tests
// ============================================================================

func TestVerify(t *testing.T) {
	b := NewBuilder()
	b.Body(b.Sequence(b.Text(0, 1), b.Code(b.Variable(1, 2))))

	require.NoError(t, Verify(b.Tree()))
}

func TestVerify_Cycle(t *testing.T) {
	b := NewBuilder()
	text := b.Text(0, 5)
	b.Body(text)
	b.Set(text, Node{Kind: KindTextBlock, Span: Span{0, 5},
		Left: None, Middle: None, Right: 0})

	err := Verify(b.Tree())
	require.ErrorIs(t, err, ErrCyclicTree)

	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Node)
	assert.Contains(t, se.Pointers, text)
}

func TestVerify_SharedNode(t *testing.T) {
	b := NewBuilder()
	x := b.Integer(0, 1)
	sum := b.Binary(KindAdd, x, x)
	b.Body(b.Code(sum))

	err := Verify(b.Tree())
	require.ErrorIs(t, err, ErrCyclicTree)

	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, x, se.Node)
	assert.Equal(t, []int{sum}, se.Pointers)
}

func TestVerify_NodeIndex(t *testing.T) {
	b := NewBuilder()
	code := b.Add(KindCodeBlock, Span{0, 1}, 42, None, None)
	b.Body(code)

	err := Verify(b.Tree())
	require.ErrorIs(t, err, ErrNodeIndex)

	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, code, se.Node)
}

func TestVerify_Empty(t *testing.T) {
	require.ErrorIs(t, Verify(Tree{}), ErrEmptyTree)
	require.ErrorIs(t, Verify(Tree{Nodes: []Node{{Kind: KindStart}}, Root: 3}),
		ErrEmptyTree)
}

// Resolver Tests
// ============================================================================

func TestResolveTypes(t *testing.T) {
	b := NewBuilder()
	text := b.Text(0, 6)
	name := b.Variable(6, 10)
	code := b.Code(name)
	b.Body(b.Sequence(text, code))

	types, err := ResolveTypes(b.Tree())
	require.NoError(t, err)

	assert.Equal(t, TypeNone, types[0])
	assert.Equal(t, TypeNone, types[text])
	assert.Equal(t, TypeNone, types[code])
	assert.Equal(t, TypeVariable, types[name])
	assert.Equal(t, TypeString, types[b.Tree().Nodes[name].Right])
}

func TestResolveTypes_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) int
		want  ReturnType
	}{
		{"integer sum", func(b *Builder) int {
			return b.Binary(KindAdd, b.Integer(0, 1), b.Integer(1, 2))
		}, TypeNumber},
		{"number plus variable", func(b *Builder) int {
			return b.Binary(KindAdd, b.Integer(0, 1), b.Variable(1, 2))
		}, TypeNumber},
		{"concat", func(b *Builder) int {
			return b.Binary(KindAdd, b.Variable(0, 1), b.Str(1, 2))
		}, TypeString},
		{"variable sum", func(b *Builder) int {
			return b.Binary(KindAdd, b.Variable(0, 1), b.Variable(1, 2))
		}, TypeVariable},
		{"comparison", func(b *Builder) int {
			return b.Binary(KindLess, b.Variable(0, 1), b.Float(1, 2))
		}, TypeBool},
		{"bracket", func(b *Builder) int {
			return b.Bracket(b.Str(0, 1))
		}, TypeString},
		{"conditional", func(b *Builder) int {
			return b.Conditional(b.Bool(0, 1), b.Variable(1, 2), b.Integer(2, 3))
		}, TypeNumber},
		{"conditional without else", func(b *Builder) int {
			return b.Conditional(b.Bool(0, 1), b.Str(1, 2), None)
		}, TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			expr := tt.build(b)
			b.Body(b.Code(expr))

			types, err := ResolveTypes(b.Tree())
			require.NoError(t, err)
			assert.Equal(t, tt.want, types[expr])
		})
	}
}

func TestResolveTypes_NoSignature(t *testing.T) {
	b := NewBuilder()
	sum := b.Binary(KindAdd, b.Str(0, 3), b.Integer(3, 4))
	b.Body(b.Code(sum))

	_, err := ResolveTypes(b.Tree())
	require.ErrorIs(t, err, ErrNoSignature)

	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, sum, se.Node)
	assert.Equal(t, Span{0, 4}, se.Span)
	assert.Equal(t, "Add(right Number, middle Unknown, left String)", se.Detail)
	assert.False(t, errors.Is(err, ErrCyclicTree))
}

func TestReturnType_String(t *testing.T) {
	assert.Equal(t, "Number", TypeNumber.String())
	assert.Equal(t, "Any", TypeAny.String())
	assert.Equal(t, "Number|Variable", numeric.String())
	assert.Equal(t, "Invalid", ReturnType(0).String())
}

// TestRegistry_CoversSignatures checks that every node shape the resolver
// accepts can be evaluated in each context its type allows.
func TestRegistry_CoversSignatures(t *testing.T) {
	flags := []ReturnType{
		TypeNone, TypeUnknown, TypeNumber, TypeBool, TypeString, TypeVariable,
	}

	for kind := range kindCount {
		for _, r := range flags {
			for _, m := range flags {
				for _, l := range flags {
					typ, ok := Signature(kind, r, m, l)
					if !ok {
						continue
					}

					for _, want := range contextsOf(kind, typ) {
						if !defaultRegistry.has(want, kind, r, m, l) {
							t.Errorf("%v(right %v, middle %v, left %v) typed %v: "+
								"no %v handler", kind, r, m, l, typ, want)
						}
					}
				}
			}
		}
	}
}

// contextsOf lists the tables that may be asked to evaluate a node of the
// given kind and static type.
func contextsOf(kind NodeKind, t ReturnType) []ReturnType {
	if t != TypeVariable {
		return []ReturnType{t}
	}

	ctx := []ReturnType{TypeNumber, TypeBool, TypeString}
	if kind == KindVariable || kind == KindAccessor {
		ctx = append(ctx, TypeVariable)
	}

	return ctx
}

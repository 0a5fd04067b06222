package lang

//go:generate go tool stringer -type NodeKind -trimprefix Kind -output nodekind_string.go

import (
	"strconv"
	"sync"
)

// None marks an absent child index.
const None = -1

// NodeKind identifies the syntactic construct a [Node] represents.
type NodeKind int

const (
	KindStart NodeKind = iota
	KindEnd
	KindBracket
	KindFilter
	KindTextBlock
	KindNewLineBlock
	KindCodeBlock
	KindVariableBlock
	KindRepeatCodeBlock
	KindNewLine
	KindAccessorBlock
	KindEnumerableAccessorBlock
	KindIf
	KindAssign
	KindConditional
	KindFloat
	KindInteger
	KindBool
	KindString
	KindAdd
	KindSubtract
	KindMultiply
	KindDivide
	KindEquals
	KindGreater
	KindLess
	KindAnd
	KindOr
	KindVariable
	KindAccessor

	kindCount
)

var nodeKindByName = sync.OnceValue(func() map[string]NodeKind {
	m := make(map[string]NodeKind, kindCount)
	for k := range kindCount {
		m[k.String()] = k
	}

	return m
})

// ParseNodeKind returns the kind with the given name, as printed by
// [NodeKind.String].
func ParseNodeKind(name string) (NodeKind, bool) {
	k, ok := nodeKindByName()[name]

	return k, ok
}

// Span is a half-open byte range [Start, End) into the template source.
type Span struct {
	Start int
	End   int
}

// Text returns the source text covered by s, clamped to the bounds of src.
func (s Span) Text(src string) string {
	start, end := max(s.Start, 0), min(s.End, len(src))
	if start >= end {
		return ""
	}

	return src[start:end]
}

func (s Span) String() string {
	return "[" + strconv.Itoa(s.Start) + ":" + strconv.Itoa(s.End) + "]"
}

// Node is one element of a [Tree]. Children are indices into the same arena;
// [None] marks an absent child.
type Node struct {
	Kind   NodeKind
	Span   Span
	Left   int
	Middle int
	Right  int
}

// Children returns the present child indices of n in right, middle, left
// order.
func (n Node) Children() []int {
	c := make([]int, 0, 3)
	for _, i := range [...]int{n.Right, n.Middle, n.Left} {
		if i != None {
			c = append(c, i)
		}
	}

	return c
}

// Tree is an arena of nodes. Node 0 is conventionally the [KindStart] root.
type Tree struct {
	Nodes []Node
	Root  int
}

// Len returns the number of nodes in the arena.
func (t Tree) Len() int { return len(t.Nodes) }

// Builder appends nodes to an arena without parsing template text. It is the
// programmatic counterpart of a parser: index 0 is always the root.
//
//	b := lang.NewBuilder()
//	b.Body(b.Sequence(
//	    b.Text(0, 6),
//	    b.Code(b.Variable(6, 10)),
//	))
//	tree := b.Tree()
type Builder struct {
	nodes []Node
}

// NewBuilder returns a builder whose arena holds only the root node.
func NewBuilder() *Builder {
	return &Builder{nodes: []Node{{
		Kind: KindStart, Left: None, Middle: None, Right: None,
	}}}
}

// Add appends a node and returns its index.
func (b *Builder) Add(kind NodeKind, span Span, left, middle, right int) int {
	b.nodes = append(b.nodes, Node{
		Kind: kind, Span: span, Left: left, Middle: middle, Right: right,
	})

	return len(b.nodes) - 1
}

// Set replaces the node at index i. It is used to patch links after the
// fact, including deliberately malformed ones in tests.
func (b *Builder) Set(i int, n Node) { b.nodes[i] = n }

// Body links the root to the given block chain.
func (b *Builder) Body(chain int) { b.nodes[0].Right = chain }

// Tree returns the arena built so far.
func (b *Builder) Tree() Tree {
	return Tree{Nodes: b.nodes, Root: 0}
}

// Sequence links blocks given in source order into a chain and returns the
// chain's head. Each block's Right is set to the block before it, which is
// the order the evaluator expects.
func (b *Builder) Sequence(blocks ...int) int {
	prev := None
	for _, i := range blocks {
		b.nodes[i].Right = prev
		prev = i
	}

	return prev
}

func (b *Builder) leaf(kind NodeKind, start, end int) int {
	return b.Add(kind, Span{start, end}, None, None, None)
}

func (b *Builder) Text(start, end int) int    { return b.leaf(KindTextBlock, start, end) }
func (b *Builder) NewLine() int               { return b.leaf(KindNewLineBlock, 0, 0) }
func (b *Builder) End() int                   { return b.leaf(KindEnd, 0, 0) }
func (b *Builder) Float(start, end int) int   { return b.leaf(KindFloat, start, end) }
func (b *Builder) Integer(start, end int) int { return b.leaf(KindInteger, start, end) }
func (b *Builder) Bool(start, end int) int    { return b.leaf(KindBool, start, end) }
func (b *Builder) Str(start, end int) int     { return b.leaf(KindString, start, end) }

// Code wraps an expression or statement in a code block.
func (b *Builder) Code(expr int) int {
	return b.Add(KindCodeBlock, b.nodes[expr].Span, expr, None, None)
}

// Variable builds a variable reference whose name is the span [start, end).
func (b *Builder) Variable(start, end int) int {
	name := b.Str(start, end)

	return b.Add(KindVariable, Span{start, end}, None, None, name)
}

// Accessor builds a property access of the name at [start, end) on base, or
// on the top-of-stack model when base is [None].
func (b *Builder) Accessor(base, start, end int) int {
	name := b.Str(start, end)

	return b.Add(KindAccessor, Span{start, end}, base, None, name)
}

// Binary builds an operator node over two operands.
func (b *Builder) Binary(kind NodeKind, left, right int) int {
	span := Span{b.nodes[left].Span.Start, b.nodes[right].Span.End}

	return b.Add(kind, span, left, None, right)
}

// Bracket groups inner.
func (b *Builder) Bracket(inner int) int {
	return b.Add(KindBracket, b.nodes[inner].Span, None, None, inner)
}

// If builds a conditional statement; otherwise may be [None].
func (b *Builder) If(cond, then, otherwise int) int {
	return b.Add(KindIf, b.nodes[cond].Span, cond, then, otherwise)
}

// Assign builds an assignment of value to the variable target.
func (b *Builder) Assign(target, value int) int {
	span := Span{b.nodes[target].Span.Start, b.nodes[value].Span.End}

	return b.Add(KindAssign, span, target, None, value)
}

// Conditional builds a ternary expression; otherwise may be [None].
func (b *Builder) Conditional(cond, then, otherwise int) int {
	return b.Add(KindConditional, b.nodes[cond].Span, then, otherwise, cond)
}

// With builds an accessor block rendering body with model pushed; guard may
// be [None]. The block is a statement: place it in a chain with
// [Builder.Code].
func (b *Builder) With(model, guard, body int) int {
	return b.Add(KindAccessorBlock, b.nodes[model].Span, model, guard, body)
}

// Each builds an enumerable accessor block; separator may be [None]. Like
// [Builder.With] it is a statement.
func (b *Builder) Each(collection, separator, body int) int {
	return b.Add(KindEnumerableAccessorBlock, b.nodes[collection].Span,
		collection, separator, body)
}

// Filters builds a bracketed filter chain from (predicate, body) pairs given
// in priority order, suitable as the body of [Builder.Each].
func (b *Builder) Filters(pairs ...[2]int) int {
	next := None
	for i := len(pairs) - 1; i >= 0; i-- {
		pred, body := pairs[i][0], pairs[i][1]
		next = b.Add(KindFilter, b.nodes[pred].Span, body, pred, next)
	}

	return b.Add(KindBracket, Span{}, None, None, next)
}

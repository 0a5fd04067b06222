package lang

import "fmt"

// void is the result type of block handlers, which only write output.
type void struct{}

type handler[T any] func(ev *evaluator, n Node) (T, Result)

type entry[T any] struct {
	right, middle, left ReturnType
	fn                  handler[T]
}

// table maps a node kind and the static types of its children to the
// handler producing a T. Operand constraints are type sets; the first
// registered entry whose constraints all match wins.
type table[T any] struct {
	name    string
	entries [kindCount][]entry[T]
}

func (t *table[T]) add(
	kind NodeKind,
	right, middle, left ReturnType,
	fn handler[T],
) {
	t.entries[kind] = append(t.entries[kind], entry[T]{right, middle, left, fn})
}

func (t *table[T]) find(
	kind NodeKind,
	right, middle, left ReturnType,
) (handler[T], bool) {
	if kind < 0 || kind >= kindCount {
		return nil, false
	}

	for _, e := range t.entries[kind] {
		if right.Has(e.right) && middle.Has(e.middle) && left.Has(e.left) {
			return e.fn, true
		}
	}

	return nil, false
}

// lookup is find for the evaluator. A miss means the resolver accepted a
// node no handler can evaluate, which is a defect in this package rather
// than in the template, so it panics.
func (t *table[T]) lookup(
	kind NodeKind,
	right, middle, left ReturnType,
) handler[T] {
	fn, ok := t.find(kind, right, middle, left)
	if !ok {
		panic(fmt.Sprintf(
			"lang: no %s handler for %v(right %v, middle %v, left %v)",
			t.name, kind, right, middle, left))
	}

	return fn
}

// registry holds one table per result type.
type registry struct {
	block  table[void]
	number table[float64]
	bool   table[bool]
	text   table[string]
	ref    table[*Parameter]
}

// defaultRegistry is immutable once built and shared by all renders.
var defaultRegistry = newRegistry()

func newRegistry() *registry {
	r := &registry{
		block:  table[void]{name: "block"},
		number: table[float64]{name: "number"},
		bool:   table[bool]{name: "bool"},
		text:   table[string]{name: "string"},
		ref:    table[*Parameter]{name: "reference"},
	}

	b := &r.block
	b.add(KindStart, blocks, TypeAny, TypeAny, blockFn(computeRight))
	b.add(KindBracket, blocks, TypeAny, TypeAny, blockFn(computeRight))
	b.add(KindRepeatCodeBlock, blocks, TypeAny, TypeAny, blockFn(computeRight))
	b.add(KindEnd, TypeAny, TypeAny, TypeAny, blockFn(computeNothing))
	b.add(KindTextBlock, blocks, TypeAny, TypeAny, blockFn(computeText))
	b.add(KindNewLineBlock, blocks, TypeAny, TypeAny, blockFn(computeNewLine))
	b.add(KindCodeBlock, blocks, TypeAny, TypeAny, blockFn(computeCode))
	b.add(KindVariableBlock, blocks, TypeAny, TypeAny, blockFn(computeCode))
	b.add(KindNewLine, TypeAny, TypeAny, TypeAny, blockFn(computeStatements))
	b.add(KindIf, TypeAny, TypeAny, boolean, blockFn(computeIf))
	b.add(KindAssign, scalar, TypeAny, TypeVariable, blockFn(computeAssign))
	b.add(KindAccessorBlock, TypeAny, TypeUnknown|boolean, TypeVariable,
		blockFn(computeWith))
	b.add(KindEnumerableAccessorBlock, TypeAny, TypeAny, TypeVariable,
		blockFn(computeEach))
	b.add(KindFilter, TypeAny, TypeAny, TypeAny, blockFn(computeStrayFilter))

	n := &r.number
	n.add(KindFloat, TypeAny, TypeAny, TypeAny, parseFloat)
	n.add(KindInteger, TypeAny, TypeAny, TypeAny, parseInteger)
	n.add(KindAdd, numeric, TypeAny, numeric, arithmetic(add))
	n.add(KindSubtract, numeric, TypeAny, numeric, arithmetic(sub))
	n.add(KindMultiply, numeric, TypeAny, numeric, arithmetic(mul))
	n.add(KindDivide, numeric, TypeAny, numeric, arithmetic(div))
	n.add(KindBracket, numeric, TypeAny, TypeAny, bracket(&r.number))
	n.add(KindConditional, boolean, numeric|absent, numeric,
		conditional(&r.number))
	n.add(KindVariable, TypeString, TypeAny, TypeAny, scalarOf(TypeNumber, asNumber))
	n.add(KindAccessor, TypeString, TypeAny, TypeVariable|absent,
		scalarOf(TypeNumber, asNumber))

	bo := &r.bool
	bo.add(KindBool, TypeAny, TypeAny, TypeAny, parseBool)
	bo.add(KindEquals, scalar, TypeAny, scalar, computeEquals)
	bo.add(KindGreater, numeric, TypeAny, numeric, ordering(greater))
	bo.add(KindLess, numeric, TypeAny, numeric, ordering(less))
	bo.add(KindAnd, boolean, TypeAny, boolean, logical(and))
	bo.add(KindOr, boolean, TypeAny, boolean, logical(or))
	bo.add(KindAdd, TypeVariable, TypeAny, TypeVariable, sumAsBool)
	bo.add(KindBracket, boolean, TypeAny, TypeAny, bracket(&r.bool))
	bo.add(KindConditional, boolean, boolean|absent, boolean,
		conditional(&r.bool))
	bo.add(KindVariable, TypeString, TypeAny, TypeAny, scalarOf(TypeBool, asBool))
	bo.add(KindAccessor, TypeString, TypeAny, TypeVariable|absent,
		scalarOf(TypeBool, asBool))

	s := &r.text
	s.add(KindString, TypeAny, TypeAny, TypeAny, literalString)
	s.add(KindAdd, text, TypeAny, text, concat)
	s.add(KindBracket, text, TypeAny, TypeAny, bracket(&r.text))
	s.add(KindConditional, boolean, text|absent, text, conditional(&r.text))
	s.add(KindVariable, TypeString, TypeAny, TypeAny, scalarOf(TypeString, asString))
	s.add(KindAccessor, TypeString, TypeAny, TypeVariable|absent,
		scalarOf(TypeString, asString))

	v := &r.ref
	v.add(KindVariable, TypeString, TypeAny, TypeAny, lookupVariable)
	v.add(KindAccessor, TypeString, TypeAny, TypeVariable|absent,
		lookupProperty)

	return r
}

func blockFn(fn func(*evaluator, Node) Result) handler[void] {
	return func(ev *evaluator, n Node) (void, Result) {
		return void{}, fn(ev, n)
	}
}

// has reports whether the table evaluating values of type t can evaluate a
// node of the given shape. References are evaluated by the reference table.
func (r *registry) has(t ReturnType, kind NodeKind, right, middle, left ReturnType) bool {
	var ok bool

	switch t {
	case TypeNone:
		_, ok = r.block.find(kind, right, middle, left)
	case TypeNumber:
		_, ok = r.number.find(kind, right, middle, left)
	case TypeBool:
		_, ok = r.bool.find(kind, right, middle, left)
	case TypeString:
		_, ok = r.text.find(kind, right, middle, left)
	case TypeVariable:
		_, ok = r.ref.find(kind, right, middle, left)
	}

	return ok
}

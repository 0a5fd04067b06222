package lang

import (
	"fmt"
	"log/slog"
)

// Operand constraints used by signatures.
const (
	absent  = TypeUnknown
	blocks  = TypeNone | TypeUnknown
	numeric = TypeNumber | TypeVariable
	boolean = TypeBool | TypeVariable
	text    = TypeString | TypeVariable
	scalar  = TypeNumber | TypeBool | TypeString | TypeVariable
)

// rule computes the static type of a node from the types of its right,
// middle and left children.
type rule func(right, middle, left ReturnType) (ReturnType, bool)

// sig accepts operands matching the given constraints and yields result.
func sig(result, right, middle, left ReturnType) rule {
	return func(r, m, l ReturnType) (ReturnType, bool) {
		return result, r.Has(right) && m.Has(middle) && l.Has(left)
	}
}

// oneOf tries rules in order.
func oneOf(rules ...rule) rule {
	return func(r, m, l ReturnType) (ReturnType, bool) {
		for _, fn := range rules {
			if t, ok := fn(r, m, l); ok {
				return t, true
			}
		}

		return 0, false
	}
}

var signatures = [kindCount]rule{
	KindStart:           sig(TypeNone, blocks, absent, absent),
	KindEnd:             sig(TypeNone, absent, absent, absent),
	KindRepeatCodeBlock: sig(TypeNone, blocks, absent, absent),
	KindTextBlock:       sig(TypeNone, blocks, absent, absent),
	KindNewLineBlock:    sig(TypeNone, blocks, absent, absent),
	KindCodeBlock:       sig(TypeNone, blocks, absent, TypeAny),
	KindVariableBlock:   sig(TypeNone, blocks, absent, TypeAny),
	KindNewLine:         sig(TypeNone, TypeAny, absent, TypeAny),
	KindFilter:          sig(TypeNone, blocks, boolean, TypeAny),
	KindIf:              sig(TypeNone, TypeAny, TypeAny, boolean),
	KindAssign:          sig(TypeNone, scalar, absent, TypeVariable),

	KindAccessorBlock: sig(TypeNone, TypeAny, TypeUnknown|boolean,
		TypeVariable),
	KindEnumerableAccessorBlock: sig(TypeNone, TypeAny, TypeAny,
		TypeVariable),

	KindBracket: func(r, m, l ReturnType) (ReturnType, bool) {
		if r == TypeUnknown {
			r = TypeNone
		}

		return r, m == absent && l == absent
	},

	KindConditional: func(r, m, l ReturnType) (ReturnType, bool) {
		if !r.Has(boolean) || !l.Has(scalar) {
			return 0, false
		}

		if l == TypeVariable && m.Concrete() {
			return m, true
		}

		return l, m.Has(l | TypeVariable | absent)
	},

	KindFloat:   sig(TypeNumber, absent, absent, absent),
	KindInteger: sig(TypeNumber, absent, absent, absent),
	KindBool:    sig(TypeBool, absent, absent, absent),
	KindString:  sig(TypeString, absent, absent, absent),

	KindAdd: oneOf(
		sig(TypeNumber, TypeNumber, absent, numeric),
		sig(TypeNumber, numeric, absent, TypeNumber),
		sig(TypeString, TypeString, absent, text),
		sig(TypeString, text, absent, TypeString),
		sig(TypeVariable, TypeVariable, absent, TypeVariable),
	),
	KindSubtract: sig(TypeNumber, numeric, absent, numeric),
	KindMultiply: sig(TypeNumber, numeric, absent, numeric),
	KindDivide:   sig(TypeNumber, numeric, absent, numeric),

	KindEquals:  sig(TypeBool, scalar, absent, scalar),
	KindGreater: sig(TypeBool, numeric, absent, numeric),
	KindLess:    sig(TypeBool, numeric, absent, numeric),
	KindAnd:     sig(TypeBool, boolean, absent, boolean),
	KindOr:      sig(TypeBool, boolean, absent, boolean),

	KindVariable: sig(TypeVariable, TypeString, absent, absent),
	KindAccessor: sig(TypeVariable, TypeString, absent, TypeVariable|absent),
}

// Signature returns the static type of a node of the given kind whose
// children have the given types, and whether any signature accepts them.
func Signature(kind NodeKind, right, middle, left ReturnType) (ReturnType, bool) {
	if kind < 0 || kind >= kindCount || signatures[kind] == nil {
		return 0, false
	}

	return signatures[kind](right, middle, left)
}

// ResolveTypes computes the static type of every node reachable from the
// root of tree. Unreachable nodes are left zero. The tree must have passed
// [Verify].
func ResolveTypes(tree Tree) ([]ReturnType, error) {
	types := make([]ReturnType, tree.Len())

	return types, resolveInto(tree, types)
}

func resolveInto(tree Tree, types []ReturnType) error {
	clear(types)

	_, err := resolveNode(tree, types, tree.Root)

	return err
}

func resolveNode(tree Tree, types []ReturnType, i int) (ReturnType, error) {
	if i == None {
		return TypeUnknown, nil
	}

	n := tree.Nodes[i]

	r, err := resolveNode(tree, types, n.Right)
	if err != nil {
		return 0, err
	}

	m, err := resolveNode(tree, types, n.Middle)
	if err != nil {
		return 0, err
	}

	l, err := resolveNode(tree, types, n.Left)
	if err != nil {
		return 0, err
	}

	t, ok := Signature(n.Kind, r, m, l)
	if !ok {
		se := newStructureError(ErrNoSignature, tree, i)
		se.Detail = fmt.Sprintf("%v(right %v, middle %v, left %v)",
			n.Kind, r, m, l)
		se.err = se.err.With(slog.String("kind", n.Kind.String()))

		return 0, se
	}

	types[i] = t

	return t, nil
}

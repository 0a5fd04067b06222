package lang

import (
	"strconv"
	"strings"
)

func parseFloat(ev *evaluator, n Node) (float64, Result) {
	s := ev.text(n)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ev.fail(n, "Cannot parse %q as a float", s)
	}

	return v, OK()
}

func parseInteger(ev *evaluator, n Node) (float64, Result) {
	s := ev.text(n)

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ev.fail(n, "Cannot parse %q as an integer", s)
	}

	return float64(v), OK()
}

func parseBool(ev *evaluator, n Node) (bool, Result) {
	s := strings.TrimSpace(ev.text(n))

	switch {
	case strings.EqualFold(s, "true"):
		return true, OK()
	case strings.EqualFold(s, "false"):
		return false, OK()
	default:
		return false, ev.fail(n, "Cannot parse %q as a bool", s)
	}
}

func literalString(ev *evaluator, n Node) (string, Result) {
	return ev.text(n), OK()
}

func add(a, b float64) float64 { return a + b }
func sub(a, b float64) float64 { return a - b }
func mul(a, b float64) float64 { return a * b }
func div(a, b float64) float64 { return a / b }

// arithmetic evaluates both operands, left first, so that diagnostics from
// each are reported.
func arithmetic(op func(a, b float64) float64) handler[float64] {
	return func(ev *evaluator, n Node) (float64, Result) {
		l, lr := ev.number(n.Left)
		r, rr := ev.number(n.Right)

		res := Combine(lr, rr)
		if !res.OK {
			return 0, res
		}

		return op(l, r), res
	}
}

func concat(ev *evaluator, n Node) (string, Result) {
	l, lr := ev.str(n.Left)
	r, rr := ev.str(n.Right)

	res := Combine(lr, rr)
	if !res.OK {
		return "", res
	}

	return l + r, res
}

// sumAsBool rejects an addition of variables used as a condition.
func sumAsBool(ev *evaluator, n Node) (bool, Result) {
	t, res := ev.resolved(n.Right)
	if !res.OK {
		return false, res
	}

	if t == TypeBool {
		return false, ev.fail(n, "Cannot add values of type %s", t)
	}

	return false, ev.fail(n, "Cannot use %s sum as %s", t, TypeBool)
}

func bracket[T any](t *table[T]) handler[T] {
	return func(ev *evaluator, n Node) (T, Result) {
		return compute(ev, t, n.Right)
	}
}

// conditional selects Left when the condition in Right holds and Middle
// otherwise. An absent Middle yields the zero value.
func conditional[T any](t *table[T]) handler[T] {
	return func(ev *evaluator, n Node) (T, Result) {
		var zero T

		cond, res := ev.boolean(n.Right)
		if !res.OK {
			return zero, res
		}

		switch {
		case cond:
			return compute(ev, t, n.Left)
		case n.Middle != None:
			return compute(ev, t, n.Middle)
		default:
			return zero, OK()
		}
	}
}

// operands resolves the concrete types of both operands of a binary node.
// Each side is resolved on its own.
func (ev *evaluator) operands(n Node) (left, right ReturnType, res Result) {
	left, lr := ev.resolved(n.Left)
	right, rr := ev.resolved(n.Right)

	return left, right, Combine(lr, rr)
}

func computeEquals(ev *evaluator, n Node) (bool, Result) {
	lt, rt, res := ev.operands(n)
	if !res.OK {
		return false, res
	}

	if lt != rt {
		return false, ev.fail(n, "Cannot compare types %s and %s", lt, rt)
	}

	switch lt {
	case TypeNumber:
		return same(ev.number, n)
	case TypeBool:
		return same(ev.boolean, n)
	default:
		return same(ev.str, n)
	}
}

func same[T comparable](eval func(int) (T, Result), n Node) (bool, Result) {
	l, lr := eval(n.Left)
	r, rr := eval(n.Right)

	res := Combine(lr, rr)

	return res.OK && l == r, res
}

func greater(a, b float64) bool { return a > b }
func less(a, b float64) bool    { return a < b }

func ordering(op func(a, b float64) bool) handler[bool] {
	return func(ev *evaluator, n Node) (bool, Result) {
		lt, rt, res := ev.operands(n)
		if !res.OK {
			return false, res
		}

		if lt != TypeNumber || rt != TypeNumber {
			return false, ev.fail(n, "Cannot compare types %s and %s", lt, rt)
		}

		l, lr := ev.number(n.Left)
		r, rr := ev.number(n.Right)

		res = Combine(lr, rr)

		return res.OK && op(l, r), res
	}
}

func and(a, b bool) bool { return a && b }
func or(a, b bool) bool  { return a || b }

// logical evaluates both operands without short-circuiting.
func logical(op func(a, b bool) bool) handler[bool] {
	return func(ev *evaluator, n Node) (bool, Result) {
		lt, rt, res := ev.operands(n)
		if !res.OK {
			return false, res
		}

		if lt != TypeBool || rt != TypeBool {
			return false, ev.fail(n,
				"Cannot apply %v to types %s and %s", n.Kind, lt, rt)
		}

		l, lr := ev.boolean(n.Left)
		r, rr := ev.boolean(n.Right)

		res = Combine(lr, rr)

		return res.OK && op(l, r), res
	}
}

func asNumber(p *Parameter) (float64, bool) { return p.Number() }
func asBool(p *Parameter) (bool, bool)      { return p.Bool() }
func asString(p *Parameter) (string, bool)  { return p.Text() }

// scalarOf reads a referenced parameter as a T.
func scalarOf[T any](
	want ReturnType,
	read func(*Parameter) (T, bool),
) handler[T] {
	return func(ev *evaluator, n Node) (T, Result) {
		var zero T

		p, res := dispatch(ev, &ev.reg.ref, n)
		if !res.OK {
			return zero, res
		}

		v, ok := read(p)
		if !ok {
			return zero, ev.fail(n,
				"Variable %s of type %s cannot be accessed as %s",
				ev.name(n), p.Kind(), want)
		}

		return v, OK()
	}
}

func lookupVariable(ev *evaluator, n Node) (*Parameter, Result) {
	name := ev.name(n)

	p, ok := ev.stack.Lookup(name)
	if !ok {
		return nil, ev.fail(n, "Variable with name %s does not exist%s",
			name, ev.hint(name, ev.visibleNames()))
	}

	return p, OK()
}

// lookupProperty reads a property of the model named by Left, or of the
// innermost scope when Left is absent. Outer scopes are never searched.
func lookupProperty(ev *evaluator, n Node) (*Parameter, Result) {
	m := ev.stack.Top()

	if n.Left != None {
		p, res := ev.reference(n.Left)
		if !res.OK {
			return nil, res
		}

		var ok bool
		if m, ok = p.Model(); !ok {
			return nil, ev.fail(n, "Variable %s is not a model",
				ev.name(ev.nodes[n.Left]))
		}
	}

	name := ev.name(n)

	p, ok := m.Get(name)
	if ok {
		return p, OK()
	}

	candidates := m.Names()

	// At the top level the render's globals extend the caller's model.
	if n.Left == None && ev.stack.Depth() == topLevelDepth {
		if p, ok := ev.stack.Root().Get(name); ok {
			return p, OK()
		}

		candidates = append(candidates, ev.stack.Root().Names()...)
	}

	return nil, ev.fail(n, "Cannot access prop %s%s",
		name, ev.hint(name, candidates))
}

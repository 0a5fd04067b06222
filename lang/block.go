package lang

// Block handlers. Chains are linked through Right to the blocks that precede
// a node in the source, so every handler evaluates Right before writing its
// own output.

func computeRight(ev *evaluator, n Node) Result { return ev.block(n.Right) }

func computeNothing(*evaluator, Node) Result { return OK() }

// computeStrayFilter rejects a filter outside the body of an enumerable block.
func computeStrayFilter(ev *evaluator, n Node) Result {
	return ev.fail(n, "Filter can only be used as the body of an enumerable block")
}

func computeText(ev *evaluator, n Node) Result {
	res := ev.block(n.Right)
	ev.out.WriteString(ev.text(n))

	return res
}

func computeNewLine(ev *evaluator, n Node) Result {
	res := ev.block(n.Right)
	ev.out.WriteByte('\n')

	return res
}

func computeCode(ev *evaluator, n Node) Result {
	res := ev.block(n.Right)

	return res.Combine(ev.value(n.Left, true))
}

// computeStatements evaluates two statements in order, discarding values.
func computeStatements(ev *evaluator, n Node) Result {
	res := ev.value(n.Left, false)

	return res.Combine(ev.value(n.Right, false))
}

func computeIf(ev *evaluator, n Node) Result {
	cond, res := ev.boolean(n.Left)
	if !res.OK {
		return res
	}

	if cond {
		return ev.value(n.Middle, true)
	}

	return ev.value(n.Right, true)
}

// computeWith renders the body with the referenced model as the innermost
// scope. An optional guard, evaluated in that scope, can skip the body.
func computeWith(ev *evaluator, n Node) Result {
	p, res := ev.reference(n.Left)
	if !res.OK {
		return res
	}

	m, ok := p.Model()
	if !ok {
		return ev.fail(n, "Variable %s is not a model",
			ev.name(ev.nodes[n.Left]))
	}

	defer ev.stack.Push(m).Pop()

	if n.Middle != None {
		pass, res := ev.boolean(n.Middle)
		if !res.OK || !pass {
			return res
		}
	}

	return ev.value(n.Right, true)
}

// computeEach renders the body once per model of an enumerable. When the
// body is a filter chain each model renders through the first filter whose
// predicate holds, and models matching none are skipped. The separator is
// written before every rendered model but the first.
func computeEach(ev *evaluator, n Node) Result {
	p, res := ev.reference(n.Left)
	if !res.OK {
		return res
	}

	models, ok := p.Enumerable()
	if !ok {
		return ev.fail(n, "Variable %s is not an enumerable model",
			ev.name(ev.nodes[n.Left]))
	}

	if first := ev.filterChain(n.Right); first != None {
		return ev.eachFiltered(n, models, first)
	}

	res = OK()

	for k, m := range models {
		if r, stop := ev.canceled(n); stop {
			return res.Combine(r)
		}

		res = res.Combine(ev.item(m, k > 0, n.Middle, n.Right))
	}

	return res
}

func (ev *evaluator) eachFiltered(n Node, models Enumerable, first int) Result {
	res := OK()
	rendered := false

	for _, m := range models {
		if r, stop := ev.canceled(n); stop {
			return res.Combine(r)
		}

		for f := first; f != None; f = ev.nodes[f].Right {
			filter := ev.nodes[f]

			match, r := ev.predicate(m, filter.Middle)
			res = res.Combine(r)

			if match {
				res = res.Combine(ev.item(m, rendered, n.Middle, filter.Left))
				rendered = true

				break
			}
		}
	}

	return res
}

// filterChain returns the first filter of a loop body given either directly
// or wrapped in a bracket, or None when the body is not filtered.
func (ev *evaluator) filterChain(body int) int {
	if body == None {
		return None
	}

	n := ev.nodes[body]
	if n.Kind == KindBracket && n.Right != None {
		body, n = n.Right, ev.nodes[n.Right]
	}

	if n.Kind == KindFilter {
		return body
	}

	return None
}

func (ev *evaluator) predicate(m *Model, i int) (bool, Result) {
	defer ev.stack.Push(m).Pop()

	ok, res := ev.boolean(i)

	return ok && res.OK, res
}

func (ev *evaluator) item(m *Model, separate bool, separator, body int) Result {
	defer ev.stack.Push(m).Pop()

	res := OK()
	if separate {
		res = ev.value(separator, true)
	}

	return res.Combine(ev.value(body, true))
}

// computeAssign stores the value of Right into the variable named by Left.
// Assigning to a name no scope declares introduces it in the root scope
// with the zero value of the assigned type, so it outlives the scope that
// assigned it.
func computeAssign(ev *evaluator, n Node) Result {
	t, res := ev.resolved(n.Right)
	if !res.OK {
		return res
	}

	zero, ok := zeroOf(t)
	if !ok {
		return ev.fail(n, "Assign does not support %s", t)
	}

	p, res := ev.target(n.Left, zero)
	if !res.OK {
		return res
	}

	if p.Type() != t {
		return ev.fail(n, "Cannot assign %s to variable of type %s",
			t, p.Kind())
	}

	var v Value

	switch t {
	case TypeNumber:
		x, r := ev.number(n.Right)
		v, res = Number(x), r
	case TypeBool:
		x, r := ev.boolean(n.Right)
		v, res = Bool(x), r
	default:
		x, r := ev.str(n.Right)
		v, res = String(x), r
	}

	if !res.OK {
		return res
	}

	if err := p.Set(v); err != nil {
		return ev.fail(n, "%v", err)
	}

	return OK()
}

// target returns the parameter an assignment writes to, hoisting a new one
// holding zero when a plain variable is not declared in any scope.
func (ev *evaluator) target(i int, zero Value) (*Parameter, Result) {
	n := ev.nodes[i]
	for n.Kind == KindBracket && n.Right != None {
		i, n = n.Right, ev.nodes[n.Right]
	}

	if n.Kind != KindVariable {
		return ev.reference(i)
	}

	name := ev.name(n)
	if p, ok := ev.stack.Lookup(name); ok {
		return p, OK()
	}

	p := NewParameter(zero)
	ev.stack.Hoist(name, p)

	return p, OK()
}

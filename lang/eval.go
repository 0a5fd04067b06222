package lang

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/sahilm/fuzzy"
)

// evaluator walks one verified, typed tree. It is created per render and is
// not safe for concurrent use.
type evaluator struct {
	ctx     context.Context
	src     string
	nodes   []Node
	types   []ReturnType
	lines   lineIndex
	stack   *ModelStack
	out     *bytes.Buffer
	reg     *registry
	suggest bool
}

// compute evaluates the node at i with the handler t registers for it.
func compute[T any](ev *evaluator, t *table[T], i int) (T, Result) {
	return dispatch(ev, t, ev.nodes[i])
}

func dispatch[T any](ev *evaluator, t *table[T], n Node) (T, Result) {
	fn := t.lookup(n.Kind, ev.typeOf(n.Right), ev.typeOf(n.Middle),
		ev.typeOf(n.Left))

	return fn(ev, n)
}

func (ev *evaluator) typeOf(i int) ReturnType {
	if i == None {
		return TypeUnknown
	}

	return ev.types[i]
}

func (ev *evaluator) text(n Node) string { return n.Span.Text(ev.src) }

// name returns the identifier of a Variable or Accessor node.
func (ev *evaluator) name(n Node) string {
	if n.Right == None {
		return ""
	}

	return ev.text(ev.nodes[n.Right])
}

func (ev *evaluator) fail(n Node, format string, args ...any) Result {
	return Fail(Diagnostic{
		Line:    ev.lines.line(n.Span.Start),
		Span:    n.Span,
		Message: fmt.Sprintf(format, args...),
	})
}

// block evaluates the block chain at i; an absent chain is empty.
func (ev *evaluator) block(i int) Result {
	if i == None {
		return OK()
	}

	_, res := compute(ev, &ev.reg.block, i)

	return res
}

func (ev *evaluator) number(i int) (float64, Result) {
	return compute(ev, &ev.reg.number, i)
}

func (ev *evaluator) boolean(i int) (bool, Result) {
	return compute(ev, &ev.reg.bool, i)
}

func (ev *evaluator) str(i int) (string, Result) {
	return compute(ev, &ev.reg.text, i)
}

// value evaluates the node at i by its resolved type. Values are written to
// the output when emit is set; statements and blocks always write their own
// output.
func (ev *evaluator) value(i int, emit bool) Result {
	if i == None {
		return OK()
	}

	t, res := ev.resolved(i)
	if !res.OK {
		return res
	}

	switch t {
	case TypeNumber:
		v, res := ev.number(i)
		if res.OK && emit {
			ev.out.WriteString(formatNumber(v))
		}

		return res

	case TypeBool:
		v, res := ev.boolean(i)
		if res.OK && emit {
			ev.out.WriteString(strconv.FormatBool(v))
		}

		return res

	case TypeString:
		v, res := ev.str(i)
		if res.OK && emit {
			ev.out.WriteString(v)
		}

		return res

	default:
		return ev.block(i)
	}
}

// resolved returns the concrete type of the value at i. Nodes whose static
// type is Variable are resolved against the bound parameters.
func (ev *evaluator) resolved(i int) (ReturnType, Result) {
	t := ev.typeOf(i)
	if t != TypeVariable {
		return t, OK()
	}

	return ev.resolveVariable(i)
}

// resolveVariable finds the runtime type of a Variable-typed node. References
// report the kind of their parameter; brackets, conditionals and additions
// whose static type was deferred resolve through the child that defines
// their type.
func (ev *evaluator) resolveVariable(i int) (ReturnType, Result) {
	n := ev.nodes[i]

	switch n.Kind {
	case KindVariable, KindAccessor:
		p, res := compute(ev, &ev.reg.ref, i)
		if !res.OK {
			return 0, res
		}

		if t := p.Type(); t.Concrete() {
			return t, OK()
		}

		return 0, ev.fail(n, "Variable %s holds a %s, not a value",
			ev.name(n), p.Kind())

	case KindBracket:
		return ev.resolved(n.Right)

	case KindConditional:
		return ev.resolved(n.Left)

	case KindAdd:
		t, res := ev.resolved(n.Right)
		if res.OK && t == TypeBool {
			return 0, ev.fail(n, "Cannot add values of type %s", t)
		}

		return t, res

	default:
		panic(fmt.Sprintf("lang: %v node %d has deferred type", n.Kind, i))
	}
}

// reference evaluates the node at i to the parameter it names. Only
// variables and property accesses, possibly bracketed, are references.
func (ev *evaluator) reference(i int) (*Parameter, Result) {
	n := ev.nodes[i]
	for n.Kind == KindBracket && n.Right != None {
		i, n = n.Right, ev.nodes[n.Right]
	}

	switch n.Kind {
	case KindVariable, KindAccessor:
		return compute(ev, &ev.reg.ref, i)
	default:
		return nil, ev.fail(n, "%v expression is not a variable", n.Kind)
	}
}

// canceled reports a failure once the render's context is done.
func (ev *evaluator) canceled(n Node) (Result, bool) {
	if err := ev.ctx.Err(); err != nil {
		return ev.fail(n, "Render canceled: %v", context.Cause(ev.ctx)), true
	}

	return OK(), false
}

// hint returns a " (did you mean ...?)" suffix naming the candidate closest
// to name, or the empty string.
func (ev *evaluator) hint(name string, candidates []string) string {
	if !ev.suggest || name == "" || len(candidates) == 0 {
		return ""
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	return fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
}

// visibleNames returns the names reachable by lookup, innermost first.
func (ev *evaluator) visibleNames() []string {
	seen := make(map[string]bool)

	var names []string

	for _, m := range ev.stack.Scopes() {
		for _, name := range m.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

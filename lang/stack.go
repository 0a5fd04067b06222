package lang

import (
	"fmt"
	"iter"
)

// ModelStack holds the chain of scopes visible during one render. Index 0 is
// the root scope.
type ModelStack struct {
	models []*Model
	ids    []uint64
	next   uint64
}

// NewModelStack returns a stack with root as its only scope.
func NewModelStack(root *Model) *ModelStack {
	return &ModelStack{models: []*Model{root}, ids: []uint64{0}, next: 1}
}

// Scope is the guard returned by [ModelStack.Push]. Pop must be called
// exactly once, typically deferred.
type Scope struct {
	stack *ModelStack
	id    uint64
}

// Push makes m the innermost scope.
//
//	defer stack.Push(m).Pop()
func (s *ModelStack) Push(m *Model) Scope {
	id := s.next
	s.next++
	s.models = append(s.models, m)
	s.ids = append(s.ids, id)

	return Scope{stack: s, id: id}
}

// Pop removes the scope pushed by the matching [ModelStack.Push]. Popping out
// of order or twice panics.
func (g Scope) Pop() {
	s := g.stack
	if s == nil || len(s.ids) < 2 || s.ids[len(s.ids)-1] != g.id {
		panic(fmt.Sprintf(
			"model stack: unbalanced pop of scope %d (stack depth %d)",
			g.id, s.Depth()))
	}

	n := len(s.models) - 1
	s.models[n] = nil
	s.models, s.ids = s.models[:n], s.ids[:n]
}

// Depth returns the number of scopes, including the root.
func (s *ModelStack) Depth() int {
	if s == nil {
		return 0
	}

	return len(s.models)
}

// Top returns the innermost scope.
func (s *ModelStack) Top() *Model { return s.models[len(s.models)-1] }

// Root returns the outermost scope.
func (s *ModelStack) Root() *Model { return s.models[0] }

// Lookup searches for name from the innermost scope outward.
func (s *ModelStack) Lookup(name string) (*Parameter, bool) {
	for _, m := range s.Scopes() {
		if p, ok := m.Get(name); ok {
			return p, true
		}
	}

	return nil, false
}

// Hoist binds name in the root scope. A template's first assignment to an
// undeclared name lands here, so the variable stays visible after the scope
// that assigned it is popped.
func (s *ModelStack) Hoist(name string, p *Parameter) {
	s.models[0].Set(name, p)
}

// Scopes iterates from the innermost scope to the root.
func (s *ModelStack) Scopes() iter.Seq2[int, *Model] {
	return func(yield func(int, *Model) bool) {
		for i := len(s.models) - 1; i >= 0; i-- {
			if !yield(i, s.models[i]) {
				return
			}
		}
	}
}

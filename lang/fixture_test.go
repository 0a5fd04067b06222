package lang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture builds a tree together with the template source its spans index.
// Each fragment is appended to the source in call order.
type fixture struct {
	*Builder
	src strings.Builder
}

func newFixture() *fixture { return &fixture{Builder: NewBuilder()} }

func (f *fixture) span(s string) (int, int) {
	start := f.src.Len()
	f.src.WriteString(s)

	return start, f.src.Len()
}

func (f *fixture) text(s string) int     { return f.Text(f.span(s)) }
func (f *fixture) variable(s string) int { return f.Variable(f.span(s)) }
func (f *fixture) str(s string) int      { return f.Str(f.span(s)) }
func (f *fixture) integer(s string) int  { return f.Integer(f.span(s)) }
func (f *fixture) float(s string) int    { return f.Float(f.span(s)) }
func (f *fixture) boolean(s string) int  { return f.Bool(f.span(s)) }

func (f *fixture) prop(base int, name string) int {
	start, end := f.span(name)

	return f.Accessor(base, start, end)
}

// body links blocks in source order under the root.
func (f *fixture) body(blocks ...int) *fixture {
	f.Body(f.Sequence(blocks...))

	return f
}

func (f *fixture) source() string { return f.src.String() }

func (f *fixture) render(t *testing.T, m *Model, opts ...Option) (string, Result) {
	t.Helper()

	out, res, err := Render(t.Context(), f.source(), f.Tree(), m, opts...)
	require.NoError(t, err)

	return out, res
}

func messages(res Result) []string {
	msgs := make([]string, len(res.Diagnostics))
	for i, d := range res.Diagnostics {
		msgs[i] = d.Message
	}

	return msgs
}

// item returns a model from alternating names and parameters.
func item(params ...any) *Model {
	m := NewModel()

	for i := 0; i+1 < len(params); i += 2 {
		m.Set(params[i].(string), params[i+1].(*Parameter))
	}

	return m
}

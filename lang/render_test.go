package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_HelloWorld(t *testing.T) {
	f := newFixture()
	f.body(
		f.text("Hello "),
		f.Code(f.variable("name")),
		f.text("!"),
	)

	out, res := f.render(t, item("name", NewString("World")))

	assert.True(t, res.OK, res.String())
	assert.Equal(t, "Hello World!", out)
}

func TestRender_TextChain_IgnoresModel(t *testing.T) {
	f := newFixture()
	f.body(f.text("a "), f.text("b\n"), f.NewLine(), f.text("c"))

	for _, m := range []*Model{nil, NewModel(), item("a", NewNumber(1))} {
		out, res := f.render(t, m)

		assert.True(t, res.OK)
		assert.Equal(t, "a b\n\nc", out)
	}
}

func TestRender_EmptyBody(t *testing.T) {
	out, res := newFixture().render(t, nil)

	assert.True(t, res.OK)
	assert.Empty(t, out)
}

func TestRender_Values(t *testing.T) {
	m := item(
		"n", NewNumber(3),
		"half", NewNumber(0.5),
		"flag", NewBool(true),
		"s", NewString("text"),
	)

	tests := []struct {
		name string
		expr func(f *fixture) int
		want string
	}{
		{"integer variable", func(f *fixture) int { return f.variable("n") }, "3"},
		{"fraction", func(f *fixture) int { return f.variable("half") }, "0.5"},
		{"bool", func(f *fixture) int { return f.variable("flag") }, "true"},
		{"bool literal", func(f *fixture) int { return f.boolean("FALSE") }, "false"},
		{"float literal", func(f *fixture) int { return f.float("2.50") }, "2.5"},
		{"string literal", func(f *fixture) int { return f.str("verbatim") }, "verbatim"},
		{"arithmetic", func(f *fixture) int {
			return f.Binary(KindAdd, f.integer("2"),
				f.Binary(KindMultiply, f.float("1.5"), f.variable("n")))
		}, "6.5"},
		{"subtract and divide", func(f *fixture) int {
			return f.Binary(KindDivide,
				f.Bracket(f.Binary(KindSubtract, f.integer("10"), f.variable("n"))),
				f.integer("2"))
		}, "3.5"},
		{"concat", func(f *fixture) int {
			return f.Binary(KindAdd, f.str("a "), f.variable("s"))
		}, "a text"},
		{"variable sum", func(f *fixture) int {
			return f.Binary(KindAdd, f.variable("n"), f.variable("half"))
		}, "3.5"},
		{"variable concat", func(f *fixture) int {
			return f.Binary(KindAdd, f.variable("s"), f.variable("s"))
		}, "texttext"},
		{"equals", func(f *fixture) int {
			return f.Binary(KindEquals, f.variable("s"), f.str("text"))
		}, "true"},
		{"less", func(f *fixture) int {
			return f.Binary(KindLess, f.variable("n"), f.integer("3"))
		}, "false"},
		{"greater", func(f *fixture) int {
			return f.Binary(KindGreater, f.variable("n"), f.variable("half"))
		}, "true"},
		{"and or", func(f *fixture) int {
			return f.Binary(KindOr,
				f.Binary(KindAnd, f.variable("flag"), f.boolean("false")),
				f.variable("flag"))
		}, "true"},
		{"conditional then", func(f *fixture) int {
			return f.Conditional(f.variable("flag"), f.str("on"), f.str("off"))
		}, "on"},
		{"conditional variable branches", func(f *fixture) int {
			return f.Conditional(f.boolean("false"), f.variable("n"), f.variable("half"))
		}, "0.5"},
		{"conditional without else", func(f *fixture) int {
			return f.Conditional(f.boolean("false"), f.str("on"), None)
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.body(f.Code(tt.expr(f)))

			out, res := f.render(t, m)

			require.True(t, res.OK, res.String())
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRender_Each(t *testing.T) {
	build := func() *fixture {
		f := newFixture()
		body := f.Code(f.prop(None, "name"))
		f.body(f.text("["), f.Code(f.Each(f.variable("items"), f.text(", "), body)), f.text("]"))

		return f
	}

	t.Run("items", func(t *testing.T) {
		m := item("items", NewEnumerable(
			item("name", NewString("m1")),
			item("name", NewString("m2")),
			item("name", NewString("m3")),
		))

		out, res := build().render(t, m)

		require.True(t, res.OK, res.String())
		assert.Equal(t, "[m1, m2, m3]", out)
	})

	t.Run("empty", func(t *testing.T) {
		out, res := build().render(t, item("items", NewEnumerable()))

		require.True(t, res.OK, res.String())
		assert.Equal(t, "[]", out)
	})

	t.Run("not enumerable", func(t *testing.T) {
		out, res := build().render(t, item("items", NewString("m1")))

		assert.False(t, res.OK)
		assert.Equal(t, []string{"Variable items is not an enumerable model"}, messages(res))
		assert.Equal(t, "[]", out)
	})
}

func TestRender_EachFiltered(t *testing.T) {
	f := newFixture()

	active := f.prop(None, "active")
	plain := f.Code(f.prop(None, "name"))

	isTwo := f.Binary(KindEquals, f.prop(None, "name"), f.str("two"))
	marked := f.Sequence(f.text("<"), f.Code(f.prop(None, "name")), f.text(">"))

	f.body(f.Code(f.Each(f.variable("items"), f.text(", "),
		f.Filters([2]int{active, plain}, [2]int{isTwo, marked}))))

	m := item("items", NewEnumerable(
		item("name", NewString("one"), "active", NewBool(true)),
		item("name", NewString("two"), "active", NewBool(false)),
		item("name", NewString("none"), "active", NewBool(false)),
		item("name", NewString("three"), "active", NewBool(true)),
	))

	out, res := f.render(t, m)

	require.True(t, res.OK, res.String())
	assert.Equal(t, "one, <two>, three", out)
}

func TestRender_EachFiltered_PredicateFailure(t *testing.T) {
	f := newFixture()

	body := f.Code(f.prop(None, "name"))
	f.body(f.Code(f.Each(f.variable("items"), None,
		f.Filters([2]int{f.prop(None, "active"), body}))))

	m := item("items", NewEnumerable(
		item("name", NewString("a"), "active", NewBool(true)),
		item("name", NewString("b")),
	))

	out, res := f.render(t, m)

	assert.False(t, res.OK)
	assert.Equal(t, "a", out)
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "Cannot access prop active")
}

func TestRender_Assign_HoistsToRoot(t *testing.T) {
	f := newFixture()

	assign := f.Code(f.Assign(f.variable("count"), f.integer("3")))
	f.body(
		f.Code(f.With(f.variable("inner"), None, assign)),
		f.Code(f.variable("count")),
	)

	m := item("inner", NewModelParameter(NewModel()))

	out, res := f.render(t, m)

	require.True(t, res.OK, res.String())
	assert.Equal(t, "3", out)

	_, declared := m.Get("count")
	assert.False(t, declared, "hoisted variable leaked into the caller's model")

	inner, _ := m.Get("inner")
	im, _ := inner.Model()
	assert.Zero(t, im.Len())
}

func TestRender_Assign_VisibleAsTopLevelProp(t *testing.T) {
	f := newFixture()
	f.body(
		f.Code(f.Assign(f.variable("count"), f.integer("3"))),
		f.Code(f.prop(None, "count")),
		f.Code(f.With(f.variable("inner"), None, f.Code(f.prop(None, "count")))),
	)

	m := item("inner", NewModelParameter(NewModel()))

	out, res := f.render(t, m)

	assert.Equal(t, "3", out)
	assert.Equal(t, []string{"Cannot access prop count"}, messages(res))
}

func TestRender_Assign_UpdatesDeclared(t *testing.T) {
	f := newFixture()
	f.body(
		f.Code(f.Assign(f.variable("x"), f.Binary(KindAdd, f.variable("x"), f.integer("2")))),
		f.Code(f.variable("x")),
	)

	m := item("x", NewNumber(1))

	out, res := f.render(t, m)

	require.True(t, res.OK, res.String())
	assert.Equal(t, "3", out)

	x, _ := m.Get("x")
	v, _ := x.Number()
	assert.InDelta(t, 3, v, 0)
}

func TestRender_Assign_TypeMismatch(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.Assign(f.variable("s"), f.integer("1"))))

	_, res := f.render(t, item("s", NewString("a")))

	assert.False(t, res.OK)
	assert.Equal(t, []string{"Cannot assign Number to variable of type String"},
		messages(res))
}

func TestRender_MismatchedComparisons(t *testing.T) {
	m := item("n", NewNumber(1), "s", NewString("1"), "b", NewBool(true))

	tests := []struct {
		name string
		kind NodeKind
		l, r string
		want string
	}{
		{"equals", KindEquals, "n", "s", "Cannot compare types Number and String"},
		{"greater", KindGreater, "n", "s", "Cannot compare types Number and String"},
		{"less", KindLess, "s", "n", "Cannot compare types String and Number"},
		{"and", KindAnd, "b", "n", "Cannot apply And to types Bool and Number"},
		{"or", KindOr, "s", "b", "Cannot apply Or to types String and Bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.body(f.Code(f.Binary(tt.kind, f.variable(tt.l), f.variable(tt.r))))

			out, res := f.render(t, m)

			assert.False(t, res.OK)
			assert.Empty(t, out)
			assert.Equal(t, []string{tt.want}, messages(res))
		})
	}
}

func TestRender_EqualsLiterals_DifferentTypes(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.Binary(KindEquals, f.integer("1"), f.str("1"))))

	_, res := f.render(t, nil)

	assert.Equal(t, []string{"Cannot compare types Number and String"}, messages(res))
}

func TestRender_If(t *testing.T) {
	build := func() *fixture {
		f := newFixture()
		f.body(f.Code(f.If(f.variable("flag"), f.text("yes"), f.text("no"))))

		return f
	}

	for flag, want := range map[bool]string{true: "yes", false: "no"} {
		out, res := build().render(t, item("flag", NewBool(flag)))

		require.True(t, res.OK, res.String())
		assert.Equal(t, want, out)
	}

	f := newFixture()
	f.body(f.Code(f.If(f.boolean("false"), f.text("yes"), None)), f.text("."))

	out, res := f.render(t, nil)

	require.True(t, res.OK, res.String())
	assert.Equal(t, ".", out)
}

func TestRender_With(t *testing.T) {
	build := func() *fixture {
		f := newFixture()
		body := f.Sequence(f.text("hi "), f.Code(f.prop(None, "name")))
		f.body(f.Code(f.With(f.variable("user"), f.prop(None, "admin"), body)))

		return f
	}

	user := func(admin bool) *Model {
		return item("user", NewModelParameter(
			item("name", NewString("ada"), "admin", NewBool(admin))))
	}

	out, res := build().render(t, user(true))
	require.True(t, res.OK, res.String())
	assert.Equal(t, "hi ada", out)

	out, res = build().render(t, user(false))
	require.True(t, res.OK, res.String())
	assert.Empty(t, out)

	_, res = build().render(t, item("user", NewNumber(1)))
	assert.Equal(t, []string{"Variable user is not a model"}, messages(res))
}

func TestRender_AccessorOnBase(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.prop(f.variable("user"), "name")))

	m := item("user", NewModelParameter(item("name", NewString("ada"))))

	out, res := f.render(t, m)

	require.True(t, res.OK, res.String())
	assert.Equal(t, "ada", out)
}

func TestRender_AccessorSearchesOnlyTopScope(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.With(f.variable("user"), None, f.Code(f.prop(None, "title")))))

	m := item(
		"title", NewString("outer"),
		"user", NewModelParameter(item("name", NewString("ada"))),
	)

	_, res := f.render(t, m)

	assert.Equal(t, []string{"Cannot access prop title"}, messages(res))
}

func TestRender_UndeclaredVariable(t *testing.T) {
	build := func() *fixture {
		f := newFixture()
		f.body(f.text("a\n"), f.Code(f.variable("nam")), f.text("b"))

		return f
	}

	m := item("name", NewString("x"))

	out, res := build().render(t, m)

	assert.False(t, res.OK)
	assert.Equal(t, "a\nb", out)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 2, res.Diagnostics[0].Line)
	assert.Equal(t, `Variable with name nam does not exist (did you mean "name"?)`,
		res.Diagnostics[0].Message)

	_, res = build().render(t, m, WithSuggestions(false))
	assert.Equal(t, []string{"Variable with name nam does not exist"}, messages(res))
}

func TestRender_VariableHoldsModel(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.variable("user")))

	_, res := f.render(t, item("user", NewModelParameter(NewModel())))

	assert.Equal(t, []string{"Variable user holds a Model, not a value"}, messages(res))
}

func TestRender_ScalarAccessedAsOtherType(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.Binary(KindSubtract, f.variable("s"), f.integer("1"))))

	_, res := f.render(t, item("s", NewString("a")))

	assert.Equal(t,
		[]string{"Variable s of type String cannot be accessed as Number"},
		messages(res))
}

func TestRender_LiteralParseErrors(t *testing.T) {
	tests := []struct {
		name string
		expr func(f *fixture) int
		want string
	}{
		{"integer", func(f *fixture) int { return f.integer("1x") }, `Cannot parse "1x" as an integer`},
		{"float", func(f *fixture) int { return f.float("1..2") }, `Cannot parse "1..2" as a float`},
		{"bool", func(f *fixture) int { return f.boolean("yes") }, `Cannot parse "yes" as a bool`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.body(f.Code(tt.expr(f)))

			out, res := f.render(t, nil)

			assert.False(t, res.OK)
			assert.Empty(t, out)
			assert.Equal(t, []string{tt.want}, messages(res))
		})
	}
}

func TestRender_ArithmeticReportsBothOperands(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.Binary(KindAdd, f.integer("x"), f.integer("y"))))

	_, res := f.render(t, nil)

	assert.Equal(t, []string{
		`Cannot parse "x" as an integer`,
		`Cannot parse "y" as an integer`,
	}, messages(res))
}

func TestRender_StrayFilter(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.Filters([2]int{f.boolean("true"), f.text("x")})))

	out, res := f.render(t, nil)

	assert.Empty(t, out)
	assert.Equal(t,
		[]string{"Filter can only be used as the body of an enumerable block"},
		messages(res))
}

func TestRender_SumAsCondition(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.If(
		f.Binary(KindAdd, f.variable("a"), f.variable("b")), f.text("x"), None)))

	_, res := f.render(t, item("a", NewNumber(1), "b", NewNumber(2)))

	assert.Equal(t, []string{"Cannot use Number sum as Bool"}, messages(res))
}

func TestRender_StructuralErrors(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		f := newFixture()
		text := f.text("loop")
		f.body(text)
		f.Set(text, Node{Kind: KindTextBlock, Span: Span{0, 4}, Left: None, Middle: None, Right: 0})

		out, res, err := Render(t.Context(), f.source(), f.Tree(), nil)

		require.ErrorIs(t, err, ErrCyclicTree)
		assert.Empty(t, out)
		assert.False(t, res.OK)
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("no signature", func(t *testing.T) {
		f := newFixture()
		f.body(f.Code(f.Binary(KindAdd, f.str("a"), f.integer("1"))))

		_, _, err := Render(t.Context(), f.source(), f.Tree(), nil)

		var se *StructureError
		require.ErrorAs(t, err, &se)
		require.ErrorIs(t, err, ErrNoSignature)
		assert.Equal(t, KindAdd, f.Tree().Nodes[se.Node].Kind)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := Render(t.Context(), "", Tree{}, nil)

		require.ErrorIs(t, err, ErrEmptyTree)
	})
}

func TestRender_Canceled(t *testing.T) {
	f := newFixture()
	f.body(f.Code(f.Each(f.variable("items"), None, f.Code(f.prop(None, "v")))))

	m := item("items", NewEnumerable(Wrap("v", NewNumber(1), NewNumber(2))...))

	ctx, cancel := context.WithCancelCause(t.Context())
	cancel(errors.New("shutdown"))

	out, res, err := Render(ctx, f.source(), f.Tree(), m)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, []string{"Render canceled: shutdown"}, messages(res))
}

func TestRender_ConcurrentModels(t *testing.T) {
	f := newFixture()
	f.body(
		f.text("id="),
		f.Code(f.variable("id")),
		f.Code(f.Each(f.variable("items"), f.text(","), f.Code(f.prop(None, "value")))),
	)

	src, tree := f.source(), f.Tree()

	var wg sync.WaitGroup

	outs := make([]string, 32)

	for i := range outs {
		wg.Go(func() {
			m := item(
				"id", NewNumber(float64(i)),
				"items", NewEnumerable(Wrap("value", NewNumber(float64(i)), NewNumber(1))...),
			)

			out, res, err := Render(t.Context(), src, tree, m)
			if err == nil && res.OK {
				outs[i] = out
			}
		})
	}

	wg.Wait()

	for i, out := range outs {
		assert.Equal(t, fmt.Sprintf("id=%d%d,1", i, i), out)
	}
}

func TestRender_ScratchReuse(t *testing.T) {
	small := newFixture()
	small.body(small.text("s"))

	big := newFixture()

	blocks := make([]int, 0, 100)
	for range 100 {
		blocks = append(blocks, big.text("b"))
	}

	big.body(blocks...)

	for range 3 {
		out, _ := big.render(t, nil)
		assert.Equal(t, strings.Repeat("b", 100), out)

		out, _ = small.render(t, nil)
		assert.Equal(t, "s", out)
	}
}

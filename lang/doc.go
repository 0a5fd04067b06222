// Package lang evaluates parsed templates against typed data models.
//
// A template arrives as a [Tree]: an arena of [Node] values linked by index,
// produced by an external parser or loaded with [DecodeTree]. Rendering is a
// fixed pipeline:
//
//  1. [Verify] rejects trees that are not trees (out of range children,
//     shared nodes, cycles).
//  2. [ResolveTypes] assigns every node a [ReturnType] bottom-up from the
//     signatures of its kind. Nodes referencing data are typed
//     [TypeVariable] and resolved when evaluated.
//  3. The evaluator walks the tree, selecting a handler per node from a
//     registry keyed by kind, result type and operand types, and writes
//     output.
//
// Structural problems abort the render with a *[StructureError]. Problems
// with the template or its data are reported as [Diagnostic] values in a
// [Result]; evaluation continues past them where it can, so partial output
// is available.
//
// # Data
//
// A [Model] is an ordered set of named [Parameter] values. A parameter holds
// a [Number], [Bool], [String], nested *[Model] or [Enumerable], and keeps
// that kind for its lifetime. Models are built in code or loaded from YAML,
// JSON, TOML or HCL with [LoadModel]; [Bind] derives parameters from
// expr-lang expressions.
//
// # Scopes
//
// Lookups walk a [ModelStack] from the innermost scope outward. Accessor
// and enumerable blocks push the model they select; [ModelStack.Push]
// returns a [Scope] whose Pop restores the stack:
//
//	defer stack.Push(m).Pop()
//
// Assigning to a name no scope declares binds it in the root scope of the
// render, so it remains visible after the assigning block ends.
//
// # Example
//
// Rendering "Hello {{name}}" against a model binding name:
//
//	src := "Hello name"
//	b := lang.NewBuilder()
//	b.Body(b.Sequence(
//		b.Text(0, 6),
//		b.Code(b.Variable(6, 10)),
//	))
//
//	m := lang.NewModel().Set("name", lang.NewString("World"))
//	out, res, err := lang.Render(ctx, src, b.Tree(), m)
//	// out == "Hello World", res.OK, err == nil
package lang

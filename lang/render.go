package lang

import (
	"context"
	"log/slog"
	"time"

	"github.com/VetleNeumann/TemplateGenerator/log"
)

// Option configures a render.
type Option func(*renderer)

type renderer struct {
	logger  log.Logger
	suggest bool
}

// WithLogger sets the logger for trace and debug records about a render.
// The zero logger discards everything.
func WithLogger(logger log.Logger) Option {
	return func(r *renderer) {
		r.logger = logger
	}
}

// WithSuggestions controls whether diagnostics about unknown names suggest
// the closest known name. Enabled by default.
func WithSuggestions(enable bool) Option {
	return func(r *renderer) {
		r.suggest = enable
	}
}

func applyOptions(r *renderer, opts ...Option) {
	for _, opt := range opts {
		opt(r)
	}
}

// topLevelDepth is the stack depth while the caller's model is the innermost
// scope: the globals root plus that model.
const topLevelDepth = 2

// Render evaluates tree against model and returns the generated text.
//
// A tree that fails [Verify] or type resolution is rejected with a
// *[StructureError] and no output. Otherwise the returned [Result] reports
// template and data errors; output produced before and around a failure is
// still returned.
//
// The root scope of each render is a fresh model that holds variables the
// template introduces by assignment; model is pushed directly above it.
// Assignments to names model already declares modify model in place.
// Outside any with block, a property access also finds assigned variables.
func Render(
	ctx context.Context,
	src string,
	tree Tree,
	model *Model,
	opts ...Option,
) (string, Result, error) {
	r := renderer{suggest: true}
	applyOptions(&r, opts...)

	start := time.Now()

	r.logger.TraceContext(ctx, "render start",
		slog.Int("nodes", tree.Len()),
		slog.Int("source_length", len(src)),
	)

	if err := Verify(tree); err != nil {
		r.logger.DebugContext(ctx, "tree rejected", slog.Any("error", err))

		return "", Result{}, err
	}

	sc := acquireScratch(tree.Len())
	defer releaseScratch(sc)

	if err := resolveInto(tree, sc.types); err != nil {
		r.logger.DebugContext(ctx, "type resolution failed",
			slog.Any("error", err))

		return "", Result{}, err
	}

	r.logger.TraceContext(ctx, "types resolved",
		slog.Duration("elapsed", time.Since(start)))

	stack := NewModelStack(NewModel())
	defer stack.Push(model).Pop()

	ev := &evaluator{
		ctx:     ctx,
		src:     src,
		nodes:   tree.Nodes,
		types:   sc.types,
		lines:   newLineIndex(src),
		stack:   stack,
		out:     &sc.out,
		reg:     defaultRegistry,
		suggest: r.suggest,
	}

	res := ev.value(tree.Root, true)

	r.logger.DebugContext(ctx, "render complete",
		slog.Bool("ok", res.OK),
		slog.Int("diagnostics", len(res.Diagnostics)),
		slog.Int("output_length", sc.out.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)

	return sc.out.String(), res, nil
}

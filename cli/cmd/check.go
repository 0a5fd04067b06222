package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/VetleNeumann/TemplateGenerator/lang"
	"github.com/VetleNeumann/TemplateGenerator/log"
)

// Check verifies a syntax tree and prints the resolved type of each node
// reachable from its root.
type Check struct {
	Tree     string `help:"Syntax tree of the template (YAML or JSON)" required:"" short:"t" type:"existingfile"`
	Template string `help:"Template source the tree was parsed from"   required:"" short:"T" type:"existingfile"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	tree, src, err := loadTemplate(ctx, c.Tree, c.Template)
	if err != nil {
		return err
	}

	types, err := check(tree)
	if err != nil {
		var se *lang.StructureError
		if errors.As(err, &se) {
			_ = lang.Highlight(stderr(ctx), src, tree, se)
		}

		return ErrRender.Wrap(err).With(slog.String("tree", c.Tree))
	}

	w := tabwriter.NewWriter(stdout(ctx), 0, 4, 2, ' ', 0)

	for i, n := range tree.Nodes {
		if types[i] == 0 {
			continue
		}

		fmt.Fprintf(w, "%d\t%v\t%v\t%v\t%s\n",
			i, n.Kind, types[i], n.Span, quote(n.Span.Text(src)))
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	log.DebugContext(ctx, "tree checked",
		slog.String("tree", c.Tree),
		slog.Int("nodes", tree.Len()),
	)

	return nil
}

func check(tree lang.Tree) ([]lang.ReturnType, error) {
	if err := lang.Verify(tree); err != nil {
		return nil, err
	}

	return lang.ResolveTypes(tree)
}

// quote shortens span text for the listing.
func quote(s string) string {
	const limit = 24

	if len(s) > limit {
		cut := limit - 3
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}

		s = s[:cut] + "..."
	}

	return fmt.Sprintf("%q", s)
}

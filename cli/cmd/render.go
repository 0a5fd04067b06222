package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/k14s/difflib"

	"github.com/VetleNeumann/TemplateGenerator/lang"
	"github.com/VetleNeumann/TemplateGenerator/log"
	"github.com/VetleNeumann/TemplateGenerator/pkg"
)

// Render renders a template from its serialized syntax tree.
type Render struct {
	Tree     string   `help:"Syntax tree of the template (YAML or JSON)"                         required:"" short:"t" type:"existingfile"`
	Template string   `help:"Template source the tree was parsed from"                           required:"" short:"T" type:"existingfile"`
	Model    []string `help:"Data model file (YAML, JSON, TOML or HCL); later files override earlier" short:"m" type:"existingfile"`
	Set      []string `help:"Bind NAME to the value of an expr expression over the model"         placeholder:"NAME=EXPR" short:"s" sep:"none"`
	Output   string   `help:"Write output to file instead of stdout"                             short:"o" type:"path"`
	Expect   string   `help:"Compare output with a golden file instead of printing it"           short:"e" type:"existingfile"`

	KeepPartial bool `help:"Write partial output when rendering fails"`
	Suggest     bool `default:"true" help:"Suggest similar names for unknown variables" negatable:""`
	Annotate    bool `default:"true" help:"Echo offending template lines in failure reports" negatable:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default().With(slog.String("template", r.Template))

	tree, src, err := loadTemplate(ctx, r.Tree, r.Template)
	if err != nil {
		return err
	}

	model, err := r.loadModel(ctx)
	if err != nil {
		return err
	}

	out, res, err := lang.Render(ctx, src, tree, model,
		lang.WithLogger(logger),
		lang.WithSuggestions(r.Suggest),
	)
	if err != nil {
		var se *lang.StructureError
		if errors.As(err, &se) {
			_ = lang.Highlight(stderr(ctx), src, tree, se)
		}

		return ErrRender.Wrap(err).With(slog.String("tree", r.Tree))
	}

	if !res.OK {
		_ = lang.Report(stderr(ctx), filepath.Base(r.Template), src, res, r.Annotate)

		if r.KeepPartial {
			if werr := r.write(ctx, out); werr != nil {
				return werr
			}
		}

		return ErrRenderFailed.With(
			slog.String("template", r.Template),
			slog.Int("diagnostics", len(res.Diagnostics)),
		)
	}

	logger.DebugContext(ctx, "template rendered", slog.Int("bytes", len(out)))

	if r.Expect != "" {
		if err := r.compare(ctx, out); err != nil {
			return err
		}

		if r.Output == "" {
			return nil
		}
	}

	return r.write(ctx, out)
}

// loadModel merges the model files in order and applies the bindings.
// Every unreadable model is reported, not only the first.
func (r *Render) loadModel(ctx context.Context) (*lang.Model, error) {
	merged := lang.NewModel()

	var errs []error

	for _, path := range uniqueFiles(r.Model) {
		m, err := lang.LoadModel(ctx, path)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		for name, p := range m.All() {
			merged.Set(name, p)
		}
	}

	if err := pkg.Collect(errs...); err != nil {
		return nil, ErrLoadInput.Wrap(err)
	}

	for _, set := range r.Set {
		name, source, err := lang.ParseBinding(set)
		if err == nil {
			err = lang.Bind(merged, name, source)
		}

		if err != nil {
			return nil, ErrLoadInput.Wrap(err).With(slog.String("set", set))
		}
	}

	return merged, nil
}

// compare checks out against the expected file and prints a diff of the
// lines that differ.
func (r *Render) compare(ctx context.Context, out string) error {
	want, err := os.ReadFile(r.Expect)
	if err != nil {
		return ErrLoadInput.Wrap(err).With(slog.String("expect", r.Expect))
	}

	if string(want) == out {
		return nil
	}

	diff := difflib.PPDiff(
		strings.Split(string(want), "\n"),
		strings.Split(out, "\n"),
	)

	fmt.Fprintf(stderr(ctx), "--- %s\n+++ rendered\n%s", r.Expect, diff)

	return ErrExpectMismatch.With(slog.String("expect", r.Expect))
}

func (r *Render) write(ctx context.Context, out string) error {
	if r.Output == "" {
		if _, err := io.WriteString(stdout(ctx), out); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(r.Output, []byte(out), 0o644); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
	}

	return nil
}

// loadTemplate reads a syntax tree and the source its spans index.
func loadTemplate(ctx context.Context, treePath, srcPath string) (lang.Tree, string, error) {
	tree, err := lang.LoadTree(ctx, treePath)
	if err != nil {
		return lang.Tree{}, "", ErrLoadInput.Wrap(err)
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return lang.Tree{}, "", ErrLoadInput.Wrap(err).With(slog.String("template", srcPath))
	}

	return tree, string(src), nil
}

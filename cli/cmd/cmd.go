package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

// contextKey stores the [kong.Context] in a [context.Context].
type contextKey struct{}

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output writer kong was configured with.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error writer kong was configured with.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// uniqueFiles returns paths without repeats of a file already listed,
// keeping the last occurrence so that a later model still overrides the
// ones before it. The same file reached through a symlink or a different
// relative path is a repeat. Paths that cannot be resolved are kept for the
// loader to report.
func uniqueFiles(paths []string) []string {
	infos := make([]os.FileInfo, len(paths))

	for i, path := range paths {
		infos[i] = statResolved(path)
	}

	out := make([]string, 0, len(paths))

next:
	for i, path := range paths {
		if infos[i] != nil {
			for _, later := range infos[i+1:] {
				if later != nil && os.SameFile(infos[i], later) {
					continue next
				}
			}
		}

		out = append(out, path)
	}

	return out
}

// statResolved returns the file info of path after following symlinks, or
// nil if it cannot be read.
func statResolved(path string) os.FileInfo {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil
	}

	return info
}

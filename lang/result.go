package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Diagnostic is one user-facing error produced while rendering.
type Diagnostic struct {
	Line    int
	Span    Span
	Message string
}

func (d Diagnostic) String() string {
	return strconv.Itoa(d.Line) + ": " + d.Message
}

// LogValue implements [slog.LogValuer].
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", d.Line),
		slog.String("span", d.Span.String()),
		slog.String("message", d.Message),
	)
}

// Result reports whether a computation succeeded and the diagnostics it
// produced. The zero value is a failure with no diagnostics; use [OK] for
// success.
type Result struct {
	OK          bool
	Diagnostics []Diagnostic
}

// OK is the successful result.
func OK() Result { return Result{OK: true} }

// Fail returns a failed result carrying d.
func Fail(d Diagnostic) Result {
	return Result{Diagnostics: []Diagnostic{d}}
}

// Combine merges results: the outcome is successful only if all are, and the
// diagnostics are concatenated in order.
func Combine(results ...Result) Result {
	out := OK()

	for _, r := range results {
		out.OK = out.OK && r.OK
		out.Diagnostics = append(out.Diagnostics, r.Diagnostics...)
	}

	return out
}

// Combine merges other into r; see the package-level [Combine].
func (r Result) Combine(other Result) Result { return Combine(r, other) }

func (r Result) String() string {
	if r.OK {
		return "ok"
	}

	var sb strings.Builder

	sb.WriteString("failed")

	for _, d := range r.Diagnostics {
		sb.WriteString("\n\t")
		sb.WriteString(d.String())
	}

	return sb.String()
}

// lineIndex maps byte offsets of a template source to 1-based line numbers.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	idx := lineIndex{0}

	for i := range len(src) {
		if src[i] == '\n' {
			idx = append(idx, i+1)
		}
	}

	return idx
}

// line returns the 1-based line containing offset.
func (idx lineIndex) line(offset int) int {
	lo, hi := 0, len(idx)
	for lo < hi {
		mid := (lo + hi) / 2
		if idx[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return max(lo, 1)
}

package lang

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ReportCode prefixes the header of a failed render report.
const ReportCode = "TGEN001"

// Report writes the diagnostics of a failed render of the template name.
// Nothing is written for a successful result. With pretty, each diagnostic
// is followed by its source line with the offending span marked.
func Report(w io.Writer, name, src string, res Result, pretty bool) error {
	if res.OK {
		return nil
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s template '%s' failed to render\n", ReportCode, name)

	st := newMarkStyles(lipgloss.NewRenderer(w))
	lines := newLineIndex(src)

	for _, d := range res.Diagnostics {
		sb.WriteByte('\t')
		sb.WriteString(d.String())
		sb.WriteByte('\n')

		if pretty {
			annotate(&sb, src, lines, []mark{{d.Span, '^', st.err}})
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// Highlight writes err followed by the template lines it involves. The
// offending node is marked with '^' and every node pointing at it with '~'.
func Highlight(w io.Writer, src string, tree Tree, err *StructureError) error {
	var sb strings.Builder

	sb.WriteString(err.Error())
	sb.WriteByte('\n')

	st := newMarkStyles(lipgloss.NewRenderer(w))

	marks := []mark{{err.Span, '^', st.err}}
	for _, p := range err.Pointers {
		if p >= 0 && p < len(tree.Nodes) {
			marks = append(marks, mark{tree.Nodes[p].Span, '~', st.ptr})
		}
	}

	annotate(&sb, src, newLineIndex(src), marks)

	_, werr := io.WriteString(w, sb.String())

	return werr
}

type markStyles struct {
	err, ptr lipgloss.Style
}

func newMarkStyles(r *lipgloss.Renderer) markStyles {
	s := r.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return markStyles{
		err: s.Foreground(lipgloss.Color("1")).Bold(true),
		ptr: s.Foreground(lipgloss.Color("6")),
	}
}

type mark struct {
	span  Span
	char  byte
	style lipgloss.Style
}

// annotate echoes each source line touched by marks, styling the marked
// bytes, and underlines them. Earlier marks take precedence where spans
// overlap.
func annotate(sb *strings.Builder, src string, lines lineIndex, marks []mark) {
	var touched []int

	for _, m := range marks {
		start := min(max(m.span.Start, 0), len(src))
		end := min(max(m.span.End, start), len(src))

		for l := lines.line(start); l <= lines.line(max(end-1, start)); l++ {
			touched = append(touched, l)
		}
	}

	slices.Sort(touched)

	for _, l := range slices.Compact(touched) {
		lo := lines[l-1]
		hi := len(src)

		if l < len(lines) {
			hi = lines[l] - 1
		}

		annotateLine(sb, src, lo, hi, marks)
	}
}

func annotateLine(sb *strings.Builder, src string, lo, hi int, marks []mark) {
	owner := make([]int, hi-lo+1)

	for i := range owner {
		owner[i] = -1
	}

	for mi := len(marks) - 1; mi >= 0; mi-- {
		s := marks[mi].span

		if s.End <= s.Start {
			if s.Start >= lo && s.Start <= hi {
				owner[s.Start-lo] = mi
			}

			continue
		}

		for off := max(s.Start, lo); off < min(s.End, hi+1); off++ {
			owner[off-lo] = mi
		}
	}

	var under strings.Builder

	sb.WriteByte('\t')

	for i := 0; i < len(owner); {
		j := i
		for j < len(owner) && owner[j] == owner[i] {
			j++
		}

		text := src[lo+i : min(lo+j, hi)]

		if owner[i] < 0 {
			sb.WriteString(text)
		} else {
			sb.WriteString(marks[owner[i]].style.Render(text))
		}

		for k := i; k < j; k++ {
			switch {
			case owner[k] >= 0:
				under.WriteString(marks[owner[k]].style.Render(string(marks[owner[k]].char)))
			case lo+k < hi && src[lo+k] == '\t':
				under.WriteByte('\t')
			default:
				under.WriteByte(' ')
			}
		}

		i = j
	}

	sb.WriteByte('\n')
	sb.WriteByte('\t')
	sb.WriteString(strings.TrimRight(under.String(), " "))
	sb.WriteByte('\n')
}

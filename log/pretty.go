package log

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to the
// handler output, so writers that are not terminals receive plain text.
type palette struct {
	key, str, num, flag, dur, time, msg lipgloss.Style
	levels                              map[Level]lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	s := r.NewStyle()

	return palette{
		key:  s.Foreground(lipgloss.Color("8")),
		str:  s.Foreground(lipgloss.Color("6")),
		num:  s.Foreground(lipgloss.Color("3")),
		flag: s.Foreground(lipgloss.Color("2")),
		dur:  s.Foreground(lipgloss.Color("5")),
		time: s.Foreground(lipgloss.Color("4")),
		msg:  s.Bold(true),
		levels: map[Level]lipgloss.Style{
			LevelTrace: s.Foreground(lipgloss.Color("4")),
			LevelDebug: s.Foreground(lipgloss.Color("4")),
			LevelInfo:  s.Foreground(lipgloss.Color("2")),
			LevelWarn:  s.Foreground(lipgloss.Color("3")),
			LevelError: s.Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[LevelError]
	case l >= slog.LevelWarn:
		return p.levels[LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[LevelInfo]
	default:
		return p.levels[LevelDebug]
	}
}

// prettyHandler writes styled records, one line per record for
// [FormatText] and an indented block for [FormatJSON].
type prettyHandler struct {
	cfg    config
	style  palette
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(cfg config) *prettyHandler {
	return &prettyHandler{
		cfg:   cfg,
		style: newPalette(lipgloss.NewRenderer(cfg.output)),
		mu:    &sync.Mutex{},
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.cfg.level)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = flatten(out, h.prefix, a)
	}

	return out
}

// flatten appends a with nested groups expanded to dotted keys.
func flatten(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return out
	}

	if a.Value.Kind() != slog.KindGroup {
		a.Key = prefix + a.Key

		return append(out, a)
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		out = flatten(out, prefix, g)
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if h.cfg.timeLayout != "" && !r.Time.IsZero() {
		fields = append(fields,
			slog.String(slog.TimeKey, r.Time.Format(h.cfg.timeLayout)))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.cfg.caller {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.cfg.format == FormatJSON {
		h.writeBlock(&buf, fields)
	} else {
		h.writeLine(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.cfg.output.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeBlock(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(a))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

func (h *prettyHandler) value(a slog.Attr) string {
	v := a.Value

	switch v.Kind() {
	case slog.KindString:
		if a.Key == slog.MessageKey {
			return h.style.msg.Render(v.String())
		}

		return h.style.str.Render(v.String())
	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		return h.style.flag.Render(strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		return h.style.dur.Render(v.Duration().String())
	case slog.KindTime:
		return h.style.time.Render(v.Time().Format(h.layout()))
	}

	if l, ok := v.Any().(slog.Level); ok {
		return h.style.level(l).Render(Level(l).label())
	}

	if err, ok := v.Any().(error); ok {
		return h.style.str.Render(strings.TrimSpace(err.Error()))
	}

	return h.style.str.Render(v.String())
}

func (h *prettyHandler) layout() string {
	if h.cfg.timeLayout == "" {
		return DefaultTimeLayout
	}

	return h.cfg.timeLayout
}

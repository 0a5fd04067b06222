package lang

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DataFormat is the encoding of a data model document.
type DataFormat int

const (
	// FormatYAML also reads JSON documents.
	FormatYAML DataFormat = iota
	FormatTOML
	FormatHCL
)

func (f DataFormat) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatHCL:
		return "hcl"
	default:
		return fmt.Sprintf("DataFormat(%d)", int(f))
	}
}

// DataFormatOf selects a format from the extension of path.
func DataFormatOf(path string) (DataFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, ErrUnsupportedData.With(slog.String("path", path))
	}
}

// LoadModel reads the data model stored at path.
func LoadModel(ctx context.Context, path string) (*Model, error) {
	format, err := DataFormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	m, err := decodeModel(ctx, f, format, path)
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return m, nil
}

// DecodeModel reads a data model document. The top level must be a mapping.
// Mapping order is preserved where the format defines one.
func DecodeModel(
	ctx context.Context,
	r io.Reader,
	format DataFormat,
) (*Model, error) {
	return decodeModel(ctx, r, format, "<input>")
}

func decodeModel(
	ctx context.Context,
	r io.Reader,
	format DataFormat,
	name string,
) (*Model, error) {
	switch format {
	case FormatYAML:
		var doc any

		dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
		if err := dec.DecodeContext(ctx, &doc); err != nil {
			if errors.Is(err, io.EOF) {
				return NewModel(), nil
			}

			return nil, ErrInvalidModel.Wrap(err)
		}

		return FromNative(doc)

	case FormatTOML:
		var doc map[string]any

		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, ErrInvalidModel.Wrap(err)
		}

		return FromNative(orderTOML(doc, md, ""))

	case FormatHCL:
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, ErrReadInput.Wrap(err)
		}

		return decodeHCL(src, name)

	default:
		return nil, ErrUnsupportedData.With(slog.String("format", format.String()))
	}
}

// FromNative converts a decoded document to a model. Mappings become models
// and sequences become enumerables; a sequence of scalars becomes an
// enumerable of single-field models binding each element to "value".
func FromNative(doc any) (*Model, error) {
	switch doc.(type) {
	case nil:
		return NewModel(), nil
	case yaml.MapSlice, map[string]any:
	default:
		return nil, ErrInvalidModel.With(
			slog.String("reason", "top level is not a mapping"),
			slog.String("type", fmt.Sprintf("%T", doc)),
		)
	}

	p, err := nativeParameter(doc, "")
	if err != nil {
		return nil, err
	}

	m, _ := p.Model()

	return m, nil
}

func nativeParameter(v any, path string) (*Parameter, error) {
	if f, ok := asFloat(v); ok {
		return NewNumber(f), nil
	}

	switch v := v.(type) {
	case bool:
		return NewBool(v), nil

	case string:
		return NewString(v), nil

	case yaml.MapSlice:
		m := NewModel()

		for _, item := range v {
			key := fmt.Sprint(item.Key)

			p, err := nativeParameter(item.Value, join(path, key))
			if err != nil {
				return nil, err
			}

			m.Set(key, p)
		}

		return NewModelParameter(m), nil

	case map[string]any:
		m := NewModel()

		for _, key := range slices.Sorted(maps.Keys(v)) {
			p, err := nativeParameter(v[key], join(path, key))
			if err != nil {
				return nil, err
			}

			m.Set(key, p)
		}

		return NewModelParameter(m), nil

	case []map[string]any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = item
		}

		return nativeParameter(items, path)

	case []any:
		return nativeSequence(v, path)

	default:
		return nil, ErrInvalidModel.With(
			slog.String("path", path),
			slog.String("type", fmt.Sprintf("%T", v)),
		)
	}
}

func nativeSequence(items []any, path string) (*Parameter, error) {
	params := make([]*Parameter, len(items))

	for i, item := range items {
		p, err := nativeParameter(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}

		params[i] = p
	}

	return parameterSequence(params, path)
}

// parameterSequence builds an enumerable from converted sequence elements,
// which must be all models or all scalars.
func parameterSequence(params []*Parameter, path string) (*Parameter, error) {
	models := 0

	for _, p := range params {
		switch p.Kind() {
		case KindModel:
			models++
		case KindEnumerable:
			return nil, ErrInvalidModel.With(
				slog.String("path", path),
				slog.String("reason", "nested sequences are not supported"),
			)
		}
	}

	switch models {
	case len(params):
		e := make(Enumerable, len(params))
		for i, p := range params {
			e[i], _ = p.Model()
		}

		return NewParameter(e), nil

	case 0:
		return NewParameter(Wrap("value", params...)), nil

	default:
		return nil, ErrInvalidModel.With(
			slog.String("path", path),
			slog.String("reason", "sequence mixes mappings and scalars"),
		)
	}
}

func asFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

// orderTOML rebuilds the tables of a decoded TOML document as ordered
// mappings following the order keys appear in the document.
func orderTOML(doc map[string]any, md toml.MetaData, prefix string) yaml.MapSlice {
	pos := make(map[string]int)
	for i, k := range md.Keys() {
		if _, ok := pos[k.String()]; !ok {
			pos[k.String()] = i
		}
	}

	return orderTable(doc, pos, prefix)
}

func orderTable(t map[string]any, pos map[string]int, prefix string) yaml.MapSlice {
	keys := slices.SortedFunc(maps.Keys(t), func(a, b string) int {
		pa, oka := pos[join(prefix, a)]
		pb, okb := pos[join(prefix, b)]

		switch {
		case oka && okb:
			return cmp.Compare(pa, pb)
		case oka != okb:
			if oka {
				return -1
			}

			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	out := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		out = append(out, yaml.MapItem{Key: k, Value: orderValue(t[k], pos, join(prefix, k))})
	}

	return out
}

func orderValue(v any, pos map[string]int, path string) any {
	switch v := v.(type) {
	case map[string]any:
		return orderTable(v, pos, path)

	case []map[string]any:
		items := make([]any, len(v))
		for i, t := range v {
			items[i] = orderTable(t, pos, path)
		}

		return items

	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = orderValue(item, pos, path)
		}

		return items

	default:
		return v
	}
}

// decodeHCL reads top-level attributes of an HCL body in source order.
func decodeHCL(src []byte, name string) (*Model, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, ErrInvalidModel.Wrap(diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, ErrInvalidModel.Wrap(diags)
	}

	ordered := slices.SortedFunc(maps.Values(attrs), func(a, b *hcl.Attribute) int {
		return cmp.Compare(a.Range.Start.Byte, b.Range.Start.Byte)
	})

	m := NewModel()

	for _, attr := range ordered {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, ErrInvalidModel.Wrap(diags).With(
				slog.String("path", attr.Name))
		}

		p, err := ctyParameter(v, attr.Name)
		if err != nil {
			return nil, err
		}

		m.Set(attr.Name, p)
	}

	return m, nil
}

func ctyParameter(v cty.Value, path string) (*Parameter, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil, ErrInvalidModel.With(
			slog.String("path", path),
			slog.String("reason", "value is null or unknown"),
		)
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return NewString(v.AsString()), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, ErrInvalidModel.Wrap(err).With(slog.String("path", path))
		}

		return NewNumber(f), nil

	case ty == cty.Bool:
		return NewBool(v.True()), nil

	case ty.IsObjectType() || ty.IsMapType():
		m := NewModel()

		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			key := k.AsString()

			p, err := ctyParameter(ev, join(path, key))
			if err != nil {
				return nil, err
			}

			m.Set(key, p)
		}

		return NewModelParameter(m), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		params := make([]*Parameter, 0, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()

			p, err := ctyParameter(ev, fmt.Sprintf("%s[%d]", path, len(params)))
			if err != nil {
				return nil, err
			}

			params = append(params, p)
		}

		return parameterSequence(params, path)

	default:
		return nil, ErrInvalidModel.With(
			slog.String("path", path),
			slog.String("type", ty.FriendlyName()),
		)
	}
}

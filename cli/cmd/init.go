package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/VetleNeumann/TemplateGenerator/log"
	"github.com/VetleNeumann/TemplateGenerator/profile"
)

// defaultConfigIndent is the indentation of the generated configuration.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// ignoredFlags are flags never written to the configuration file.
var ignoredFlags = []string{"help", "version", profile.Tag}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	buf, err := yaml.MarshalWithOptions(i.values(ctx),
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, buf, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// values returns the global flags with a value, in declaration order.
// Command flags are left out: they describe one invocation, not defaults.
func (i *Init) values(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || ignored(flag.Name) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}

func ignored(name string) bool {
	for _, prefix := range ignoredFlags {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// configValue converts a flag value to plain data. Empty strings and
// slices are omitted.
func configValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), rv.Len() > 0
	case reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}

		items := make([]any, rv.Len())
		for k := range rv.Len() {
			items[k] = rv.Index(k).Interface()
		}

		return items, true
	case reflect.Bool:
		return rv.Bool(), true
	default:
		return v, true
	}
}

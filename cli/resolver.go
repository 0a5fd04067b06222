package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/VetleNeumann/TemplateGenerator/log"
)

// resolve is a [kong.ConfigurationLoader] for YAML (or JSON) configuration
// files. Keys name flags without their leading dashes, with hyphens or
// underscores; nested mappings join their keys with a hyphen, so both of
// these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Sequences are joined with commas, kong's separator for slice flags.
// Command-line flags override configuration values. A file that cannot be
// parsed is ignored with a warning so a broken configuration never prevents
// running --help or init --force.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring configuration file", slog.Any("error", err))
		}

		return config{}, nil
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened configuration keys.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = scalar(item)
			}

			c[key] = strings.Join(items, ",")
		default:
			c[key] = scalar(v)
		}
	}
}

// scalar formats a configuration value the way kong parses flag values.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}

// Package cli is the command line interface of tgen.
//
// # Usage
//
//	tgen [flags] <command>
//
// Commands:
//   - render: render a template from its syntax tree and data models
//   - check: verify a syntax tree and print the type of every node
//   - init: write the current flag values to the configuration file
//
// # Configuration
//
// Flags can be preset in config.yaml under the user configuration directory
// (for example ~/.config/tgen/config.yaml). Keys are flag names; see
// [resolve] for the accepted layout. Running "tgen init" writes a starting
// file.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: record format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, ms, none, ...)
//   - --[no-]log-caller: include source locations
//   - --[no-]log-pretty: colorize records on terminals
//
// # Profiling Options
//
// Built with the pprof tag, --pprof-mode selects a profile (cpu, heap,
// allocs, ...) and --pprof-dir its output directory, by default the pprof
// directory under the user cache directory.
package cli

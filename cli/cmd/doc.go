// Package cmd implements the tgen subcommands.
//
// Render evaluates a template's syntax tree against one or more data models
// and writes the output, or a diagnostic report when rendering fails. Check
// verifies a syntax tree and lists the type resolved for each node. Init
// writes the current global flag values to the configuration file.
//
// Commands receive the parsed kong context through [WithContext] and write
// to the streams it was configured with.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw content of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version is the semantic version of tgen, printed by the --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and names the
	// configuration and cache directories.
	Name = "tgen"
	// Description is the one-line summary shown in help output.
	Description = "Render typed templates from parsed syntax trees"
)

// AuthorInfo identifies a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the maintainers shown in metadata.
var Author = []AuthorInfo{
	{Name: "VetleNeumann"},
}

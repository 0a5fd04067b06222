package cli

import (
	"os"
	"path/filepath"

	"github.com/VetleNeumann/TemplateGenerator/pkg"
)

// baseConfig and configExt name the configuration file.
const (
	baseConfig = "config"
	configExt  = ".yaml"
)

// defaultDirMode is the permission mode of created directories.
const defaultDirMode os.FileMode = 0o700

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// Package config reads and writes the gh-tool-config file shared by the
// gh-* tools. The file lives in the XDG config directory and holds plain
// KEY=value lines; keys written by other tools are preserved on save.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"
)

const (
	// FileName is the shared config file, relative to the XDG config dir.
	FileName = "gh-tool-config"

	keyDefaultOwner  = "DEFAULT_OWNER"
	keyCheckPatterns = "CHECK_PATTERNS"
)

func init() {
	// Keep the KEY=value format the other tools sharing this file expect.
	ini.PrettyFormat = false
}

// Config holds the values this tool reads at startup. It is loaded once and
// passed into the components that need it; nothing reads the file ad hoc.
type Config struct {
	// DefaultOwner resolves bare repository names and patterns that lack
	// an explicit owner. Empty when unset.
	DefaultOwner string

	// CheckPatterns are the repository-name regexps the check command
	// filters by, comma-separated in the file.
	CheckPatterns []string
}

// Path returns the location of the shared config file, creating parent
// directories as needed.
func Path() (string, error) {
	return xdg.ConfigFile(FileName)
}

// Load reads the shared config file. A missing file yields a zero Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	cfg := &Config{
		DefaultOwner: strings.TrimSpace(f.Section("").Key(keyDefaultOwner).String()),
	}

	for _, p := range f.Section("").Key(keyCheckPatterns).Strings(",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.CheckPatterns = append(cfg.CheckPatterns, p)
		}
	}

	return cfg, nil
}

// SetDefaultOwner persists the default owner, creating the file if needed.
// Last write wins; the workflow commands never call this.
func SetDefaultOwner(owner string) error {
	path, err := Path()
	if err != nil {
		return err
	}

	return setKey(path, keyDefaultOwner, owner)
}

func setKey(path, key, value string) error {
	f := ini.Empty()
	if _, err := os.Stat(path); err == nil {
		if f, err = ini.Load(path); err != nil {
			return fmt.Errorf("cannot read config %s: %w", path, err)
		}
	}

	f.Section("").Key(key).SetValue(value)

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}

	return nil
}

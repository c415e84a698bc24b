package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xdg/cmdbind/internal/clog"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "command_bind.conf"

// Format is a configuration file syntax.
type Format int

const (
	// FormatINI is the classic sectioned INI syntax.
	FormatINI Format = iota
	// FormatYAML is the defaults/commands YAML layout.
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "ini"
}

// FormatForPath picks the syntax from the file extension. Anything that is
// not .yaml or .yml is read as INI.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatINI
	}
}

// Load reads and validates the configuration file at path.
// Any error is a *Error and is fatal for startup.
func Load(path string) (*Config, error) {
	clog.Debug("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("read config: %w", err)}
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	clog.Debug("config: loaded %d bindings from %s", len(cfg.Bindings), path)
	return cfg, nil
}

// Parse validates configuration data. path selects the format and is
// recorded in errors and in the returned Config.
func Parse(path string, data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &Error{Path: path, Err: ErrEmptyConfig}
	}

	var raw *rawConfig
	var err error
	switch FormatForPath(path) {
	case FormatYAML:
		raw, err = parseYAML(data)
	default:
		raw, err = parseINI(data)
	}
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			return nil, withPath(err, path)
		}
		return nil, &Error{Path: path, Err: err}
	}

	return build(path, raw)
}

// ExpandHome replaces a leading ~ in path with the user's home directory.
// If the home directory cannot be determined, the path is returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

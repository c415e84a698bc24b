package config

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/xdg/cmdbind/internal/tokenize"
)

// validName matches section names usable as a single URL path segment.
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// optionalKeys may appear in the defaults and in any section.
var optionalKeys = map[string]bool{
	KeyWorkingDirectory:    true,
	KeyAutoCreateDirectory: true,
	KeyAcceptArguments:     true,
	KeyTimeout:             true,
}

// requiredDefaults must be present in the defaults.
var requiredDefaults = []string{
	KeyWorkingDirectory,
	KeyAutoCreateDirectory,
	KeyAcceptArguments,
}

// build validates a parsed file and produces the immutable Config.
// Validation stops at the first error.
func build(path string, raw *rawConfig) (*Config, error) {
	defaults, err := buildDefaults(raw.Defaults)
	if err != nil {
		return nil, withPath(err, path)
	}

	cfg := &Config{Path: path, Defaults: defaults}
	seen := map[string]bool{}
	for _, sec := range raw.Sections {
		if seen[sec.Name] {
			return nil, withPath(&Error{Section: sec.Name, Err: ErrDuplicateSection}, path)
		}
		seen[sec.Name] = true

		b, err := buildBinding(sec, defaults)
		if err != nil {
			return nil, withPath(err, path)
		}
		cfg.Bindings = append(cfg.Bindings, b)
	}
	return cfg, nil
}

func buildDefaults(sec rawSection) (Defaults, error) {
	for _, k := range sec.Keys {
		if !optionalKeys[k] {
			return Defaults{}, &Error{Section: DefaultSection, Key: k, Err: ErrUnknownKey}
		}
	}
	for _, k := range requiredDefaults {
		if _, ok := sec.get(k); !ok {
			return Defaults{}, &Error{Section: DefaultSection, Key: k, Err: ErrMissingKey}
		}
	}

	var d Defaults
	var err error
	if d.WorkingDirectory, err = directoryValue(sec, ""); err != nil {
		return Defaults{}, err
	}
	if d.AutoCreateDirectory, err = boolValue(sec, KeyAutoCreateDirectory, false); err != nil {
		return Defaults{}, err
	}
	if d.AcceptArguments, err = boolValue(sec, KeyAcceptArguments, false); err != nil {
		return Defaults{}, err
	}
	if d.Timeout, err = timeoutValue(sec, 0); err != nil {
		return Defaults{}, err
	}
	return d, nil
}

func buildBinding(sec rawSection, d Defaults) (Binding, error) {
	if !validName.MatchString(sec.Name) {
		return Binding{}, &Error{
			Section: sec.Name,
			Err:     fmt.Errorf("%w: must match %s", ErrInvalidName, validName),
		}
	}
	for _, k := range sec.Keys {
		if k != KeyCommand && !optionalKeys[k] {
			return Binding{}, &Error{Section: sec.Name, Key: k, Err: ErrUnknownKey}
		}
	}

	command, ok := sec.get(KeyCommand)
	if !ok {
		return Binding{}, &Error{Section: sec.Name, Key: KeyCommand, Err: ErrMissingKey}
	}
	argv, err := tokenize.Command(command)
	if err != nil {
		return Binding{}, &Error{Section: sec.Name, Key: KeyCommand, Err: err}
	}

	b := Binding{Name: sec.Name, Command: command, Argv: argv}
	if b.WorkingDirectory, err = directoryValue(sec, d.WorkingDirectory); err != nil {
		return Binding{}, err
	}
	if b.AutoCreateDirectory, err = boolValue(sec, KeyAutoCreateDirectory, d.AutoCreateDirectory); err != nil {
		return Binding{}, err
	}
	if b.AcceptArguments, err = boolValue(sec, KeyAcceptArguments, d.AcceptArguments); err != nil {
		return Binding{}, err
	}
	if b.Timeout, err = timeoutValue(sec, d.Timeout); err != nil {
		return Binding{}, err
	}
	return b, nil
}

// directoryValue returns the section's working directory with ~ expanded,
// or fallback when the key is absent.
func directoryValue(sec rawSection, fallback string) (string, error) {
	v, ok := sec.get(KeyWorkingDirectory)
	if !ok {
		return fallback, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &Error{Section: sec.Name, Key: KeyWorkingDirectory, Err: ErrEmptyValue}
	}
	return ExpandHome(v), nil
}

func boolValue(sec rawSection, key string, fallback bool) (bool, error) {
	v, ok := sec.get(key)
	if !ok {
		return fallback, nil
	}
	b, err := ParseBool(v)
	if err != nil {
		return false, &Error{Section: sec.Name, Key: key, Err: err}
	}
	return b, nil
}

func timeoutValue(sec rawSection, fallback time.Duration) (time.Duration, error) {
	v, ok := sec.get(KeyTimeout)
	if !ok {
		return fallback, nil
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, &Error{
			Section: sec.Name,
			Key:     KeyTimeout,
			Err:     fmt.Errorf("%w %q: want a non-negative duration such as 30s or 5m", ErrInvalidTimeout, v),
		}
	}
	return d, nil
}

// ParseBool accepts the classic INI boolean spellings, case-insensitively:
// 1, yes, true, on and 0, no, false, off.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("%w %q: want one of 1/yes/true/on or 0/no/false/off", ErrInvalidBool, s)
}

// withPath attaches the file path to a configuration error.
func withPath(err error, path string) error {
	var cfgErr *Error
	if errors.As(err, &cfgErr) && cfgErr.Path == "" {
		cfgErr.Path = path
	}
	return err
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by *Error.
var (
	ErrEmptyConfig      = errors.New("configuration file is empty")
	ErrMissingKey       = errors.New("missing required key")
	ErrUnknownKey       = errors.New("unknown key")
	ErrInvalidBool      = errors.New("invalid boolean")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrInvalidName      = errors.New("invalid section name")
	ErrDuplicateSection = errors.New("duplicate section")
	ErrEmptyValue       = errors.New("value must not be empty")
)

// Error is a configuration error. It names the file, section and key so an
// operator can find the offending line.
type Error struct {
	Path    string
	Section string
	Key     string
	Err     error
}

func (e *Error) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Section != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Section))
	}
	if e.Key != "" {
		parts = append(parts, e.Key)
	}
	if len(parts) == 0 {
		return e.Err.Error()
	}
	return strings.Join(parts, " ") + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

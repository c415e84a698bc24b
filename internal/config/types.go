// Package config loads the command binding configuration. A loaded Config
// is immutable: nothing in the server mutates it after startup.
package config

import "time"

// Config is a validated configuration file.
type Config struct {
	// Path is the file the configuration was loaded from.
	Path     string
	Defaults Defaults
	// Bindings appear in file order.
	Bindings []Binding
}

// Defaults are the section-independent fallback values.
type Defaults struct {
	WorkingDirectory    string
	AutoCreateDirectory bool
	AcceptArguments     bool
	Timeout             time.Duration
}

// Binding ties one route keyword to one command.
type Binding struct {
	// Name is the section name and the route keyword.
	Name string
	// Command is the template as written in the file.
	Command string
	// Argv is Command split into words at load time.
	Argv                []string
	WorkingDirectory    string
	AutoCreateDirectory bool
	AcceptArguments     bool
	// Timeout bounds each run. Zero means no limit.
	Timeout time.Duration
}

// Lookup returns the binding with the given name.
func (c *Config) Lookup(name string) (Binding, bool) {
	for _, b := range c.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Configuration keys, shared by the INI and YAML formats.
const (
	KeyCommand             = "command"
	KeyWorkingDirectory    = "working_directory"
	KeyAutoCreateDirectory = "mkdir_if_working_directory_not_exist"
	KeyAcceptArguments     = "accept_arguments"
	KeyTimeout             = "timeout"
)

// DefaultSection is the name of the INI section holding fallback values.
const DefaultSection = "DEFAULT"

// rawSection is one section as read from a file, before validation.
type rawSection struct {
	Name   string
	Keys   []string // in file order
	Values map[string]string
}

func newRawSection(name string) rawSection {
	return rawSection{Name: name, Values: map[string]string{}}
}

func (s *rawSection) set(key, value string) {
	if _, ok := s.Values[key]; !ok {
		s.Keys = append(s.Keys, key)
	}
	s.Values[key] = value
}

func (s rawSection) get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// rawConfig is the format-independent result of parsing.
type rawConfig struct {
	Defaults rawSection
	Sections []rawSection
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// iniOptions keep the classic INI dialect: key names are case-insensitive
// and quotes around a value are kept so the command tokenizer sees them.
// Inline comments are handled by stripInlineComment, since ini.v1 would cut
// at ";" and at a quoted "#".
var iniOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
}

// parseINI reads an INI file. Keys before the first section and keys in a
// [DEFAULT] section both land in the defaults.
func parseINI(data []byte) (*rawConfig, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("decode INI: %w", err)
	}

	raw := &rawConfig{Defaults: newRawSection(DefaultSection)}
	for _, sec := range f.Sections() {
		target := newRawSection(sec.Name())
		for _, key := range sec.Keys() {
			target.set(key.Name(), stripInlineComment(key.Value()))
		}
		if sec.Name() == ini.DefaultSection {
			for _, k := range target.Keys {
				raw.Defaults.set(k, target.Values[k])
			}
			continue
		}
		raw.Sections = append(raw.Sections, target)
	}
	return raw, nil
}

// stripInlineComment cuts v at the first "#" that follows whitespace and is
// outside quotes. A value that starts with "#" is all comment.
func stripInlineComment(v string) string {
	var quote byte
	afterSpace := true
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
		case c == '\\':
			i++
		case quote == '"':
			if c == '"' {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#' && afterSpace:
			return strings.TrimRight(v[:i], " \t")
		}
		afterSpace = quote == 0 && (c == ' ' || c == '\t')
	}
	return v
}

// yamlDocument is the YAML layout. Commands stays a node so that bindings
// keep their file order.
type yamlDocument struct {
	Defaults map[string]string `yaml:"defaults"`
	Commands yaml.Node         `yaml:"commands"`
}

// parseYAML reads a YAML file. Unknown top-level fields are rejected.
func parseYAML(data []byte) (*rawConfig, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}

	raw := &rawConfig{Defaults: newRawSection(DefaultSection)}
	for _, k := range sortedKeys(doc.Defaults) {
		raw.Defaults.set(k, doc.Defaults[k])
	}

	if doc.Commands.Kind == 0 {
		return raw, nil
	}
	if doc.Commands.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode YAML: line %d: commands must be a mapping of name to settings", doc.Commands.Line)
	}

	seen := map[string]bool{}
	content := doc.Commands.Content
	for i := 0; i+1 < len(content); i += 2 {
		nameNode, valueNode := content[i], content[i+1]
		name := nameNode.Value
		if seen[name] {
			return nil, &Error{Section: name, Err: ErrDuplicateSection}
		}
		seen[name] = true

		var fields map[string]string
		if err := valueNode.Decode(&fields); err != nil {
			return nil, fmt.Errorf("decode YAML: command %q: %w", name, err)
		}

		sec := newRawSection(name)
		for _, k := range sortedKeys(fields) {
			sec.set(k, fields[k])
		}
		raw.Sections = append(raw.Sections, sec)
	}
	return raw, nil
}

// Package tokenize turns configured command templates and request path
// suffixes into argv tokens. No shell is involved at any point: the tokens
// are handed to the executor verbatim.
package tokenize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// ErrMalformedCommand is returned when a command template has unbalanced
// quotes or ends in a dangling escape.
var ErrMalformedCommand = errors.New("malformed command template")

// ErrEmptyCommand is returned when a command template contains no words.
var ErrEmptyCommand = errors.New("command template is empty")

// Command splits a command template using POSIX shell word-splitting rules.
// Quotes group words and are stripped, backslash escapes are honored, and
// nothing is expanded. "ls -l" yields ["ls", "-l"].
//
// Inside double quotes a backslash is kept unless it precedes $, `, ", \ or
// a newline, so `printf "%s\n"` passes the two characters \n to printf.
// A # is always literal; templates have no comments.
func Command(template string) ([]string, error) {
	tokens, err := shlex.Split(escapeForLexer(template))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedCommand, template, err)
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}
	return tokens, nil
}

// Arguments splits a slash-delimited path suffix into argument tokens.
// An empty suffix yields an empty slice. Otherwise every segment becomes a
// token, including empty ones: "a//b/" yields ["a", "", "b", ""].
func Arguments(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, "/")
}

// Join rejoins tokens with single spaces. The result is for display only
// and must never be executed.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

// posixDoubleQuoteEscapes are the characters a backslash escapes inside
// double quotes.
const posixDoubleQuoteEscapes = "$`\"\\\n"

// escapeForLexer rewrites a template so shlex splits it the POSIX way.
// shlex drops every backslash inside double quotes and starts a comment at
// an unquoted word-initial #; both are escaped here.
func escapeForLexer(template string) string {
	const (
		unquoted = iota
		singleQuoted
		doubleQuoted
	)

	var b strings.Builder
	b.Grow(len(template) + 8)
	state := unquoted
	wordStart := true
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch state {
		case unquoted:
			switch {
			case c == '\\':
				b.WriteByte(c)
				if i+1 < len(template) {
					i++
					b.WriteByte(template[i])
				}
				wordStart = false
				continue
			case c == '\'':
				state = singleQuoted
			case c == '"':
				state = doubleQuoted
			case c == '#' && wordStart:
				b.WriteByte('\\')
			}
			wordStart = isSpace(c)
		case singleQuoted:
			if c == '\'' {
				state = unquoted
			}
		case doubleQuoted:
			switch c {
			case '"':
				state = unquoted
			case '\\':
				if i+1 == len(template) {
					break
				}
				if strings.IndexByte(posixDoubleQuoteEscapes, template[i+1]) < 0 {
					b.WriteByte('\\')
					break
				}
				b.WriteByte(c)
				i++
				b.WriteByte(template[i])
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

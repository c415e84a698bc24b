// Package result turns an execution outcome into the record shown to the
// caller. It knows nothing about HTML; rendering lives in the server.
package result

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/executor"
)

// Placeholders used when the OS cannot tell us who or where we are.
const (
	UnknownUser = "unknown-user"
	UnknownHost = "unknown-host"
)

// StatusOK is the status of a successful run.
const StatusOK = "OK"

// Identity is the OS user running the server and the host it runs on.
type Identity struct {
	Username string
	HostName string
}

// CurrentIdentity looks up the server's user and host name, falling back to
// placeholders for whatever cannot be determined.
func CurrentIdentity() Identity {
	id := Identity{Username: UnknownUser, HostName: UnknownHost}
	if u, err := user.Current(); err == nil && u.Username != "" {
		id.Username = u.Username
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		id.HostName = h
	}
	return id
}

// Result is the presentation contract for one invocation.
type Result struct {
	SectionName  string
	Command      string
	Status       string
	Username     string
	HostName     string
	WorkingDir   string
	Output       string
	ErrorMessage string

	Kind       executor.Kind
	ExitCode   int // -1 if no process ran
	Duration   time.Duration
	OutputSize uint64
	RawOutput  []byte // undecoded output, for non-HTML callers
}

// Failed reports whether the invocation did not succeed.
func (r Result) Failed() bool {
	return r.Status != StatusOK
}

// Format builds the Result for an outcome. commandLine is the assembled
// argv joined with spaces, for display only.
func Format(o executor.Outcome, b config.Binding, commandLine string, id Identity) Result {
	return Result{
		SectionName:  b.Name,
		Command:      commandLine,
		Status:       Status(o),
		Username:     id.Username,
		HostName:     id.HostName,
		WorkingDir:   b.WorkingDirectory,
		Output:       DecodeBytes(o.Output),
		ErrorMessage: o.Message,
		Kind:         o.Kind,
		ExitCode:     exitCode(o),
		Duration:     o.Duration,
		OutputSize:   uint64(len(o.Output)),
		RawOutput:    o.Output,
	}
}

// Status renders "OK" or "Fail (ret = N)". Outcomes where no process ran
// carry exit code -1.
func Status(o executor.Outcome) string {
	if o.Succeeded() {
		return StatusOK
	}
	return fmt.Sprintf("Fail (ret = %d)", exitCode(o))
}

func exitCode(o executor.Outcome) int {
	if !o.Ran {
		return -1
	}
	return o.ExitCode
}

// DecodeBytes maps every byte to the rune of the same value, so output is
// shown exactly as the legacy renderer did: one byte, one character, with no
// UTF-8 decoding. Multi-byte UTF-8 sequences therefore appear as several
// Latin-1 characters.
func DecodeBytes(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// Package executor runs bound commands as child processes and classifies
// how they ended.
package executor

import (
	"context"
	"time"
)

// Executor executes commands on the host system.
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) Outcome
}

// ExecuteRequest contains the command execution parameters.
type ExecuteRequest struct {
	// Argv is the complete argument vector; Argv[0] is the executable.
	Argv []string
	// Workdir is the already-resolved working directory.
	Workdir string
	// Timeout bounds the child's run time. Zero means no limit.
	Timeout time.Duration
}

// Kind classifies an Outcome.
type Kind int

// Outcome kinds. The zero value is a successful run.
const (
	KindNone Kind = iota
	KindDirectoryConflict
	KindDirectoryCreateFailed
	KindDirectoryMissing
	KindExecutableNotFound
	KindNonZeroExit
	KindTimedOut
	KindCanceled
	KindExecFailed
)

var kindNames = map[Kind]string{
	KindNone:                  "None",
	KindDirectoryConflict:     "DirectoryConflict",
	KindDirectoryCreateFailed: "DirectoryCreateFailed",
	KindDirectoryMissing:      "DirectoryMissing",
	KindExecutableNotFound:    "ExecutableNotFound",
	KindNonZeroExit:           "NonZeroExit",
	KindTimedOut:              "TimedOut",
	KindCanceled:              "Canceled",
	KindExecFailed:            "ExecFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Outcome is the result of one invocation.
type Outcome struct {
	Kind Kind
	// Ran reports whether a child process actually started.
	Ran bool
	// ExitCode is only meaningful when Ran is true. A child killed by a
	// signal reports -1.
	ExitCode int
	// Output holds stdout and stderr interleaved as the OS delivered them.
	Output   []byte
	Message  string
	Duration time.Duration
}

// Succeeded reports whether the child ran and exited with status zero.
func (o Outcome) Succeeded() bool {
	return o.Kind == KindNone
}

// Package workdir checks the working directory precondition of a binding
// before anything is executed. The check runs on every invocation because
// the directory can be created or removed behind the server's back.
package workdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Kind identifies which precondition failed.
type Kind int

const (
	// Conflict means the path exists but is not a directory. Sockets,
	// devices and FIFOs conflict the same way a regular file does.
	Conflict Kind = iota + 1
	// Missing means the path does not exist and auto-creation is off.
	Missing
	// CreateFailed means auto-creation was attempted and failed.
	CreateFailed
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case Conflict:
		return "conflict"
	case Missing:
		return "missing"
	case CreateFailed:
		return "create failed"
	default:
		return "unknown"
	}
}

// Error is a terminal precondition failure. No process may be spawned
// after one is returned.
type Error struct {
	Kind Kind
	Path string
	User string // process user, set for CreateFailed
	Err  error  // underlying OS error, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case Conflict:
		return fmt.Sprintf("working_directory %q exists but is not a directory; remove it or point working_directory elsewhere", e.Path)
	case Missing:
		if e.Err != nil {
			return fmt.Sprintf("working_directory %q is not accessible: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("working_directory %q does not exist and mkdir_if_working_directory_not_exist is false", e.Path)
	case CreateFailed:
		return fmt.Sprintf("failed to create working_directory %q as user %q: %v", e.Path, e.User, e.Err)
	default:
		return fmt.Sprintf("working_directory %q: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Resolution is a directory that execution may proceed in.
type Resolution struct {
	Path    string
	Created bool // true if this call created the directory
}

// Resolver runs the precondition check on behalf of a process user.
type Resolver struct {
	// User names the server's OS user in CreateFailed errors.
	User string
}

// Resolve decides whether a command may run in path.
//
//   - existing non-directory: Conflict, regardless of autoCreate
//   - existing directory: proceed
//   - missing, autoCreate: create with parents, CreateFailed on error
//   - missing, !autoCreate: Missing
//
// A path below a regular file counts as missing.
//
// Creation goes through os.MkdirAll, so a concurrent creator winning the
// race is not an error and repeated calls are idempotent.
func (r Resolver) Resolve(path string, autoCreate bool) (Resolution, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Resolution{}, &Error{Kind: Conflict, Path: path}
		}
		return Resolution{Path: path}, nil
	case !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR):
		return Resolution{}, &Error{Kind: Missing, Path: path, Err: err}
	}

	if !autoCreate {
		return Resolution{}, &Error{Kind: Missing, Path: path}
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return Resolution{}, &Error{Kind: CreateFailed, Path: path, User: r.User, Err: err}
	}
	return Resolution{Path: path, Created: true}, nil
}

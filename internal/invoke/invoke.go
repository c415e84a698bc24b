// Package invoke runs one binding for one HTTP request: it assembles argv,
// checks the working directory, executes, and formats the result.
package invoke

import (
	"context"
	"errors"
	"slices"

	"github.com/xdg/cmdbind/internal/clog"
	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/executor"
	"github.com/xdg/cmdbind/internal/result"
	"github.com/xdg/cmdbind/internal/tokenize"
	"github.com/xdg/cmdbind/internal/workdir"
)

// Request is one invocation of a binding. RawArgs is the path suffix after
// "/<keyword>/", empty when the request carried none.
type Request struct {
	Binding config.Binding
	RawArgs string
}

// Argv returns the binding's command words followed by the argument tokens.
// The binding's own slice is never modified.
func (r Request) Argv() []string {
	return append(slices.Clone(r.Binding.Argv), tokenize.Arguments(r.RawArgs)...)
}

// Invoker executes requests on behalf of the server's OS user.
type Invoker struct {
	Executor executor.Executor
	Identity result.Identity
}

// New returns an Invoker that runs real processes as the current user.
func New() *Invoker {
	return &Invoker{
		Executor: executor.NewRealExecutor(),
		Identity: result.CurrentIdentity(),
	}
}

// Invoke runs req and always returns a Result; failures are reported in it.
// A failed working directory check returns before anything is spawned.
func (inv *Invoker) Invoke(ctx context.Context, req Request) result.Result {
	b := req.Binding
	argv := req.Argv()
	commandLine := tokenize.Join(argv)

	resolver := workdir.Resolver{User: inv.Identity.Username}
	res, err := resolver.Resolve(b.WorkingDirectory, b.AutoCreateDirectory)
	if err != nil {
		o := preconditionOutcome(err)
		clog.Warn("invoke %s: %s", b.Name, o.Message)
		return result.Format(o, b, commandLine, inv.Identity)
	}
	if res.Created {
		clog.Info("invoke %s: created working directory %s", b.Name, res.Path)
	}

	clog.Debug("invoke %s: argv=%q dir=%s timeout=%s", b.Name, argv, res.Path, b.Timeout)
	o := inv.Executor.Execute(ctx, executor.ExecuteRequest{
		Argv:    argv,
		Workdir: res.Path,
		Timeout: b.Timeout,
	})

	switch o.Kind {
	case executor.KindNone, executor.KindNonZeroExit:
		clog.Info("invoke %s: %s exit=%d bytes=%d in %s", b.Name, o.Kind, o.ExitCode, len(o.Output), o.Duration)
	default:
		clog.Warn("invoke %s: %s: %s", b.Name, o.Kind, o.Message)
	}
	return result.Format(o, b, commandLine, inv.Identity)
}

// preconditionOutcome converts a working directory error into an Outcome
// for a process that never ran.
func preconditionOutcome(err error) executor.Outcome {
	o := executor.Outcome{Kind: executor.KindDirectoryMissing, Message: err.Error()}

	var wdErr *workdir.Error
	if errors.As(err, &wdErr) {
		switch wdErr.Kind {
		case workdir.Conflict:
			o.Kind = executor.KindDirectoryConflict
		case workdir.CreateFailed:
			o.Kind = executor.KindDirectoryCreateFailed
		}
	}
	return o
}

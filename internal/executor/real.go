package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the child itself was killed.
const waitDelay = 5 * time.Second

// RealExecutor executes commands using os/exec.
type RealExecutor struct{}

// NewRealExecutor creates a new RealExecutor.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

// Execute runs req.Argv in req.Workdir and blocks until the child exits.
// The child gets the null device as stdin, and its stdout and stderr share a
// single buffer. Execute never returns an error; every failure is folded
// into the Outcome.
func (e *RealExecutor) Execute(ctx context.Context, req ExecuteRequest) Outcome {
	if len(req.Argv) == 0 {
		return Outcome{Kind: KindExecFailed, Message: "empty command"}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Argv[0], req.Argv[1:]...) //nolint:gosec // G204: argv comes from operator config
	cmd.Dir = req.Workdir
	cmd.WaitDelay = waitDelay

	// Same writer for both streams, so os/exec hands the child one pipe and
	// the output interleaves the way a terminal would show it.
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	if err := cmd.Start(); err != nil {
		o := Outcome{}
		if !classifyContext(ctx, req, &o) {
			o = classifyStartError(req, err)
		}
		o.Duration = time.Since(start)
		return o
	}

	err := cmd.Wait()
	o := Outcome{
		Ran:      true,
		Output:   out.Bytes(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		o.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return o
	}

	// The context is checked first: a killed child also yields an ExitError.
	if classifyContext(ctx, req, &o) {
		return o
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		o.Kind = KindNonZeroExit
		o.ExitCode = exitErr.ExitCode()
		if o.ExitCode < 0 {
			o.Message = fmt.Sprintf("command %q terminated: %v", req.Argv, exitErr)
		} else {
			o.Message = fmt.Sprintf("command %q exited with status %d", req.Argv, o.ExitCode)
		}
		return o
	}

	o.Kind = KindExecFailed
	o.Message = fmt.Sprintf("command %q: %v", req.Argv, err)
	return o
}

// classifyContext sets o to TimedOut or Canceled if ctx is done and reports
// whether it did.
func classifyContext(ctx context.Context, req ExecuteRequest, o *Outcome) bool {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		o.Kind = KindTimedOut
		if req.Timeout > 0 {
			o.Message = fmt.Sprintf("command %q timed out after %s", req.Argv, req.Timeout)
		} else {
			o.Message = fmt.Sprintf("command %q timed out", req.Argv)
		}
		return true
	case errors.Is(ctx.Err(), context.Canceled):
		o.Kind = KindCanceled
		o.Message = fmt.Sprintf("command %q was canceled: request closed before it finished", req.Argv)
		return true
	}
	return false
}

// classifyStartError maps a failed Start to an Outcome. Lookup failures and
// exec failures on the program file both mean the executable is unusable; a
// chdir failure means the directory vanished after it was resolved.
func classifyStartError(req ExecuteRequest, err error) Outcome {
	program := req.Argv[0]

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return Outcome{
			Kind:    KindExecutableNotFound,
			Message: fmt.Sprintf("executable not found: %q (%v)", program, execErr.Err),
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if pathErr.Op == "chdir" {
			return Outcome{
				Kind:    KindDirectoryMissing,
				Message: fmt.Sprintf("working_directory %q disappeared before %q could start: %v", req.Workdir, program, pathErr.Err),
			}
		}
		return Outcome{
			Kind:    KindExecutableNotFound,
			Message: fmt.Sprintf("executable not found or not executable: %q (%v)", program, pathErr.Err),
		}
	}

	return Outcome{
		Kind:    KindExecFailed,
		Message: fmt.Sprintf("failed to start %q: %v", program, err),
	}
}

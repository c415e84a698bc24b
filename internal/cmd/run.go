package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/executor"
	"github.com/xdg/cmdbind/internal/invoke"
	"github.com/xdg/cmdbind/internal/result"
	"github.com/xdg/cmdbind/internal/term"
)

// exitNotFound is the shell convention for a command that could not be found.
const exitNotFound = 127

var runCmd = &cobra.Command{
	Use:   "run KEYWORD [ARG...]",
	Short: "Run one configured command locally, as GET /KEYWORD/ARG/... would",
	Long: `Run the command bound to KEYWORD exactly as the server would for
GET /KEYWORD/ARG/ARG/..., but print the output to stdout and exit with the
command's exit status. Arguments are rejected unless the command has
accept_arguments enabled.

Exit status is 127 if the executable was not found, and 1 for any other
failure that prevented the command from running.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	b, ok := cfg.Lookup(args[0])
	if !ok {
		return fmt.Errorf("no command named %q in %s", args[0], cfg.Path)
	}
	if len(args) > 1 && !b.AcceptArguments {
		return fmt.Errorf("command %q does not accept arguments (accept_arguments is false)", b.Name)
	}

	req := invoke.Request{Binding: b, RawArgs: strings.Join(args[1:], "/")}
	res := invoke.New().Invoke(cmd.Context(), req)

	_, _ = term.Stdout().Write(res.RawOutput)
	if !res.Failed() {
		return nil
	}
	if res.ErrorMessage != "" {
		term.Error("%s", res.ErrorMessage)
	}
	return NewExitCodeError(exitCode(res))
}

// exitCode maps a failed result to the process exit status.
func exitCode(res result.Result) int {
	switch res.Kind {
	case executor.KindNonZeroExit:
		if res.ExitCode > 0 {
			return res.ExitCode
		}
	case executor.KindExecutableNotFound:
		return exitNotFound
	}
	return 1
}

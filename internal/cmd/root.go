// Package cmd implements the cmdbind CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xdg/cmdbind/internal/clog"
	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/term"
	"github.com/xdg/cmdbind/internal/version"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	debugLog   bool
	logFile    string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cmdbind",
	Short: "Expose configured shell commands as HTTP endpoints",
	Long: `cmdbind binds commands declared in a configuration file to HTTP routes.

Each section of the file names a route keyword. A GET request to /<keyword>/
runs the section's command in its working directory and returns the combined
output as an HTML page. Sections with accept_arguments enabled also answer
/<keyword>/<arg>/<arg>/..., appending each path segment as an argument.

Commands are never run through a shell.`,
	Version:           version.String(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultPath, "configuration file (.conf/.ini or .yaml/.yml)")
	flags.BoolVar(&debugLog, "debug", false, "enable debug logging")
	flags.StringVar(&logFile, "log-file", "", "also append logs to this file")
}

// setupLogging configures clog for one-shot commands: warnings and errors
// on stderr. serve raises the console level after startup.
func setupLogging(cmd *cobra.Command, args []string) error {
	return clog.Configure(clog.Options{
		FilePath:     logFile,
		Debug:        debugLog,
		ConsoleLevel: consoleLevel(cmd),
	})
}

// consoleLevel shows request logs on the console only while serving.
func consoleLevel(cmd *cobra.Command) clog.Level {
	switch {
	case cmd != serveCmd:
		return clog.LevelWarn
	case debugLog:
		return clog.LevelDebug
	default:
		return clog.LevelInfo
	}
}

// Execute runs the root command and returns any error.
func Execute() error {
	defer func() { _ = clog.Close() }()
	rootCmd.SetOut(term.Stdout())
	rootCmd.SetErr(term.Stderr())
	return rootCmd.Execute()
}

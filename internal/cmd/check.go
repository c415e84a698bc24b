package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/term"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and list its routes",
	Long: `Load and validate the configuration file without serving it, then print
the route each command is bound to. Exits 1 if the configuration is invalid.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	for _, b := range cfg.Bindings {
		term.Printf("GET /%s/ -> %s (in %s)\n", b.Name, b.Command, b.WorkingDirectory)
		if b.AcceptArguments {
			term.Printf("GET /%s/<args> -> %s <args> (in %s)\n", b.Name, b.Command, b.WorkingDirectory)
		}
	}
	term.Printf("%s: %d commands OK\n", cfg.Path, len(cfg.Bindings))
	return nil
}

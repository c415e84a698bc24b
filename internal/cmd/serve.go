package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xdg/cmdbind/internal/clog"
	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/invoke"
	"github.com/xdg/cmdbind/internal/server"
	"github.com/xdg/cmdbind/internal/term"
)

// shutdownTimeout bounds how long in-flight commands may finish after a
// termination signal.
const shutdownTimeout = 30 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured commands over HTTP",
	Long: `Load the configuration, register one route per command, and serve until
interrupted (SIGINT/SIGTERM). In-flight commands get up to 30 seconds to
finish on shutdown; after that their requests are closed and the child
processes killed.

A configuration error aborts startup with a nonzero exit status.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", server.DefaultAddr, "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, listenAddr, func(addr string) {
		term.Printf("Serving %d commands from %s on http://%s/\n", len(cfg.Bindings), cfg.Path, addr)
	})
}

// serve runs the HTTP server for cfg until ctx is done or the server fails.
// ready is called with the bound address once the listener is up.
func serve(ctx context.Context, cfg *config.Config, addr string, ready func(string)) error {
	if len(cfg.Bindings) == 0 {
		term.Warn("%s defines no commands; every request will be 404", cfg.Path)
	}
	for _, b := range cfg.Bindings {
		suffix := ""
		if b.AcceptArguments {
			suffix = " (+ arguments)"
		}
		clog.Info("route: GET /%s/ -> %s in %s%s", b.Name, b.Command, b.WorkingDirectory, suffix)
	}

	srv := server.New(addr, server.NewRouter(cfg.Bindings, invoke.New()))
	if err := srv.Start(); err != nil {
		return err
	}
	if ready != nil {
		ready(srv.ListenAddr())
	}

	select {
	case <-ctx.Done():
		clog.Info("shutting down")
	case err := <-srv.Done():
		return fmt.Errorf("server stopped: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	clog.Debug("server stopped")
	return nil
}

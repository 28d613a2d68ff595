package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"freedesktop.org/appstream/internal/api"
	"freedesktop.org/appstream/internal/monitor"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the HTTP API server. The pool is refreshed on startup; with
monitoring enabled, changes to the metadata sources trigger automatic
rebuilds while the server runs.`,
	RunE: runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	p, res, err := loadPool(cmd.Context(), false)
	if err != nil {
		return fmt.Errorf("failed to build component pool: %w", err)
	}
	log.Printf("pool ready: %d components (%s)", res.Components, res.Outcome)

	server := api.New(cfg, p)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// Watch the sources and refresh in the background.
	if cfg.Monitor.Enabled {
		var paths []string
		for _, src := range poolSources(cfg) {
			paths = append(paths, src.Path)
		}
		mon, err := monitor.New(paths, cfg.Monitor.MinInterval, func() {
			res, err := p.Refresh(ctx, true)
			if err != nil {
				log.Printf("background refresh failed: %v", err)
				return
			}
			log.Printf("background refresh: %d components (%s)", res.Components, res.Outcome)
		})
		if err != nil {
			log.Printf("source monitoring disabled: %v", err)
		} else {
			go func() {
				if err := mon.Run(ctx); err != nil && ctx.Err() == nil {
					log.Printf("source monitor stopped: %v", err)
				}
			}()
		}
	}

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/networth-forecast/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func (a *app) newServeCommand() *cobra.Command {
	var (
		address          string
		serverConfigPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.serverConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("address") {
				cfg.Address = address
			}

			logger := a.logger
			if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
				if logger, err = newLogger(cfg.Logging); err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			return a.withStores(func(s *stores) error {
				handler := server.NewHandler(logger, s.records, s.settings, cfg.BodySizeBytes(), a.version, a.conf.Milestones...)
				srv := &http.Server{
					Addr:              cfg.Address,
					Handler:           handler,
					ReadHeaderTimeout: 10 * time.Second,
				}

				ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer cancel()
				return run(ctx, srv, logger)
			})
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	cmd.Flags().StringVar(&serverConfigPath, "server-config", "", "optional standalone server YAML (address, maxBodySize, logging)")
	return cmd
}

// serverConfig returns the standalone server configuration when a path is
// given and the server section of the application configuration otherwise.
func (a *app) serverConfig(path string) (*server.Config, error) {
	if path != "" {
		return server.LoadConfig(path)
	}
	return server.NewConfig(a.conf.Server)
}

func run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "commands.serve"),
			zap.String("address", srv.Addr),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down",
		zap.String("op", "commands.serve"),
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

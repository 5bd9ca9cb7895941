package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoster/drawcell/pkg/service"
)

// serveCommand creates the serve command for running the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the drawcell HTTP server",
		Long: `Run the drawcell HTTP server.

The server exposes the diagram operation surface over a JSON API:

  POST   /api/v1/sessions                          create a session
  POST   /api/v1/sessions/{id}/ops/{name}          dispatch one operation
  DELETE /api/v1/sessions/{id}                     end a session
  GET    /healthz                                  liveness probe

Session state lives in the configured storage backend (memory by default;
file, redis, and mongo are available via the config file). The server shuts
down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if configPath != "" {
				printInfo("Using config %s", StyleHighlight.Render(configPath))
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe builds the store and service, then serves until the context is
// canceled.
func (c *CLI) runServe(ctx context.Context, cfg Config) error {
	logger := loggerFromContext(ctx)

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()

	svc := service.New(service.Config{
		Store:       store,
		TTL:         cfg.sessionTTL(),
		DefaultName: cfg.Diagram.DefaultName,
		Logger:      logger,
	})
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: service.NewServer(svc, logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr, "backend", cfg.Storage.Backend)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

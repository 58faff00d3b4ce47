package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/linguaviz/linguaviz/internal/api"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server receives a stop signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes all content operations under /api/v1 and a liveness
probe at /health. It stops gracefully on SIGINT or SIGTERM, allowing
in-flight requests to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen string) error {
	cfg, err := LoadConfig(c.ConfigPath)
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Listen
	}

	svc, closeBackend, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeBackend()

	srv := &http.Server{
		Addr:              listen,
		Handler:           api.NewServer(svc, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	c.Logger.Info("serving", "addr", listen, "backend", cfg.Backend)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

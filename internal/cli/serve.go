package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlenz/drawbridge/internal/server"
	"github.com/mlenz/drawbridge/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for running the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		noCache bool
		noIcons bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram generation HTTP server",
		Long: `Run the diagram generation HTTP server.

The server exposes POST /diagram for generation, GET /history for recorded
links, and GET /health for probes. Cache and history backends come from the
config file; --listen overrides the configured address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen, noCache, noIcons)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the icon bundle cache")
	cmd.Flags().BoolVar(&noIcons, "no-icons", false, "skip the icon bundle and use builtin styles only")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen string, noCache, noIcons bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Server.Listen
	}

	resolver, err := c.newCatalog(ctx, cfg, noCache, noIcons)
	if err != nil {
		return err
	}

	store, err := newHistoryStore(ctx, cfg.History)
	if err != nil {
		return fmt.Errorf("initialize history: %w", err)
	}
	defer store.Close(context.Background())

	handler := server.New(
		c.newRunner(resolver),
		store,
		pipeline.Options{Margin: &cfg.Layout.Margin},
		c.Logger,
	)

	srv := &http.Server{
		Addr:              listen,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

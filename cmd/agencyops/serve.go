package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aceweb/agencyops/internal/mcp"
	"github.com/aceweb/agencyops/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var metrics *mcp.Metrics
			if c.cfg.Metrics.Enabled && c.cfg.Transport.Mode == "http" {
				metrics = mcp.NewMetrics()
			}
			server := mcp.NewServer(mcp.Config{
				Services:      a.MCPServices(),
				Resolver:      a.APIKeys,
				AuthEnabled:   c.cfg.Auth.Enabled,
				TransportMode: c.cfg.Transport.Mode,
				Logger:        c.logger,
				Metrics:       metrics,
				Version:       version,
			})

			if c.cfg.Transport.Mode == "stdio" {
				return runStdioMode(cmd.Context(), c.logger, server)
			}

			var auth func(http.Handler) http.Handler
			if c.cfg.Auth.Enabled {
				auth = transport.AuthMiddleware(a.APIKeys)
			}
			addr := fmt.Sprintf("%s:%d", c.cfg.Server.Host, c.cfg.Server.Port)
			return runHTTPMode(cmd.Context(), c.logger, server, metrics, auth, addr)
		},
	}

	f := cmd.Flags()
	f.String("transport", "", "stdio or http")
	f.String("host", "", "HTTP listen host")
	f.Int("port", 0, "HTTP listen port")
	f.Bool("no-auth", false, "disable bearer authentication in HTTP mode")
	return cmd
}

func runStdioMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or the context is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, metrics *mcp.Metrics, auth func(http.Handler) http.Handler, addr string) error {
	routes := transport.Routes{
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return server },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		),
	}
	if metrics != nil {
		routes.Metrics = metrics.Handler()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewRouter(routes, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "metrics", metrics != nil)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

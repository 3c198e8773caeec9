package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/httpapi"
	"github.com/huangsam/repovalue/internal/mcp"
	"github.com/spf13/cobra"
)

// serveCmd exposes the valuation tools over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the valuation tools over HTTP",
	Long: `Start an HTTP server exposing the valuation tools.

Endpoints:
  GET  /                  service description
  GET  /health            health probe
  GET  /mcp/manifest      tool manifest
  POST /mcp/invoke        run a tool: {"tool": "...", "arguments": {...}}
  /mcp                    streamable MCP transport

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  repovalue serve
  repovalue serve --addr 127.0.0.1:9000 --allowed-origins https://example.com --log-level debug`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		tools := mcp.NewToolset(mustService(), cfg)
		if err := httpapi.New(cfg, tools, logger).ListenAndServe(ctx); err != nil {
			stop()
			contract.LogFatal("Server stopped", err)
		}
	},
}

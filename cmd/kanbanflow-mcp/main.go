// kanbanflow-mcp: read-only KanbanFlow MCP server
//
// Exposes a KanbanFlow board (columns, tasks, users, comments) to any MCP
// client as tools, resources and prompts.
//
// Usage:
//
//	kanbanflow-mcp serve   # Start MCP server (stdio transport)
//	kanbanflow-mcp http    # Start MCP server (streamable HTTP transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/kanbanflow-mcp/internal/config"
	"github.com/HendryAvila/kanbanflow-mcp/internal/httpserver"
	"github.com/HendryAvila/kanbanflow-mcp/internal/logging"
	kfserver "github.com/HendryAvila/kanbanflow-mcp/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(transportStdio); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "http":
		if err := run(transportHTTP); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("kanbanflow-mcp v%s\n", kfserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

type transport int

const (
	transportStdio transport = iota
	transportHTTP
)

func run(mode transport) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, cleanup, err := logging.New(logging.Options{
		Level:   cfg.Server.LogLevel,
		File:    cfg.Server.LogFile,
		Service: cfg.Server.Name,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer cleanup()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s, err := kfserver.New(kfserver.Options{
		Config:     cfg,
		Logger:     logger,
		Registerer: reg,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if mode == transportStdio {
		// stdio server manages its own lifecycle and signals.
		return server.ServeStdio(s)
	}

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewRouter(httpserver.Options{
		MCP:        server.NewStreamableHTTPServer(s),
		Gatherer:   reg,
		Logger:     logger,
		AuthSecret: cfg.Server.AuthSecret,
		Version:    kfserver.Version,
	})
	return httpserver.Run(ctx, cfg.Server.Addr(), router, logger)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `kanbanflow-mcp v%s: read-only KanbanFlow MCP server

Usage:
  kanbanflow-mcp serve    Start the MCP server (stdio transport)
  kanbanflow-mcp http     Start the MCP server (streamable HTTP on /mcp)
  kanbanflow-mcp version  Print the version

Environment (a .env file in the working directory is also read):
  KANBANFLOW_API_KEY           Board API token (required)
  KANBANFLOW_BASE_URL          API root (default %s)
  KANBANFLOW_TIMEOUT           Per-request timeout (default 30s)
  KANBANFLOW_BREAKER_FAILURES  Consecutive failures before the breaker opens, 0 disables (default 5)
  KANBANFLOW_BREAKER_TIMEOUT   How long the breaker stays open (default 30s)
  MCP_SERVER_NAME              Server name reported to clients (default kanbanflow-mcp)
  MCP_SERVER_HOST              HTTP listen host (default 127.0.0.1)
  MCP_SERVER_PORT              HTTP listen port (default 3000)
  MCP_SERVER_LOG_LEVEL         trace, debug, info, warn, error (default info)
  MCP_SERVER_LOG_FILE          Rotating log file; logs go to stderr when empty
  MCP_SERVER_AUTH_SECRET       HS256 secret for bearer tokens on /mcp; no auth when empty

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "kanbanflow": {
        "command": "kanbanflow-mcp",
        "args": ["serve"],
        "env": { "KANBANFLOW_API_KEY": "..." }
      }
    }
  }
`, kfserver.Version, config.DefaultBaseURL)
}

// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the KanbanFlow client, the user
// directory, the enricher and the operations façade, and injects them into
// the tools, prompts and resources. No business logic lives here, only
// wiring.
package server

import (
	"fmt"
	"net/http"

	"github.com/HendryAvila/kanbanflow-mcp/internal/config"
	"github.com/HendryAvila/kanbanflow-mcp/internal/enrich"
	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/HendryAvila/kanbanflow-mcp/internal/prompts"
	"github.com/HendryAvila/kanbanflow-mcp/internal/resources"
	"github.com/HendryAvila/kanbanflow-mcp/internal/service"
	"github.com/HendryAvila/kanbanflow-mcp/internal/tools"
	"github.com/HendryAvila/kanbanflow-mcp/internal/users"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/trace"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options carries the process-wide collaborators.
type Options struct {
	Config *config.Config
	Logger *logrus.Logger
	// Registerer receives every collector. Defaults to a fresh registry.
	Registerer prometheus.Registerer
	// TracerProvider defaults to the global otel provider.
	TracerProvider trace.TracerProvider
	// Transport is the base round tripper for KanbanFlow calls.
	Transport http.RoundTripper
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. It fails before any network I/O when the API key
// is missing.
func New(opts Options) (*server.MCPServer, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("server: nil config")
	}
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// --- Create shared dependencies ---

	remote := newRemoteMetrics(reg)

	clientOpts := []kanbanflow.Option{
		kanbanflow.WithBaseURL(cfg.KanbanFlow.BaseURL),
		kanbanflow.WithHTTPClient(&http.Client{
			Timeout:   cfg.KanbanFlow.Timeout,
			Transport: remote.transport(base),
		}),
	}
	if cfg.KanbanFlow.BreakerFailures > 0 {
		cb := kanbanflow.NewBreaker("kanbanflow", cfg.KanbanFlow.BreakerFailures, cfg.KanbanFlow.BreakerTimeout,
			func(name string, from, to gobreaker.State) {
				remote.breakerChanged(to)
				log.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			})
		clientOpts = append(clientOpts, kanbanflow.WithBreaker(cb))
	}
	if opts.TracerProvider != nil {
		clientOpts = append(clientOpts, kanbanflow.WithTracerProvider(opts.TracerProvider))
	}

	client, err := kanbanflow.NewClient(cfg.KanbanFlow.APIKey, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating kanbanflow client: %w", err)
	}

	directory := users.NewDirectory(client, users.WithLoadHook(func(e users.LoadEvent) {
		remote.userLoad(e)
		entry := log.WithFields(logrus.Fields{
			"users":       e.Users,
			"duration_ms": e.Duration.Milliseconds(),
			"discarded":   e.Discarded,
		})
		if e.Err != nil {
			entry.WithFields(logrus.Fields(kanbanflow.ErrorFields(e.Err))).
				Warn("user directory load failed, names will be missing")
			return
		}
		entry.Info("user directory loaded")
	}))

	svc := service.New(client, enrich.New(directory), directory)
	in := tools.NewInstrument(log, tools.NewMetrics(reg))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		cfg.Server.Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	boardTool := tools.NewBoardTool(svc, in)
	s.AddTool(boardTool.Definition(), boardTool.Handle)

	allTasksTool := tools.NewAllTasksTool(svc, in)
	s.AddTool(allTasksTool.Definition(), allTasksTool.Handle)

	tasksByColumnTool := tools.NewTasksByColumnTool(svc, in)
	s.AddTool(tasksByColumnTool.Definition(), tasksByColumnTool.Handle)

	taskTool := tools.NewTaskTool(svc, in)
	s.AddTool(taskTool.Definition(), taskTool.Handle)

	usersTool := tools.NewUsersTool(svc, in)
	s.AddTool(usersTool.Definition(), usersTool.Handle)

	commentsTool := tools.NewCommentsTool(svc, in)
	s.AddTool(commentsTool.Definition(), commentsTool.Handle)

	clearTool := tools.NewClearUserCacheTool(svc, in)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	// --- Register prompts ---

	overviewPrompt := prompts.NewBoardOverviewPrompt()
	s.AddPrompt(overviewPrompt.Definition(), overviewPrompt.Handle)

	briefPrompt := prompts.NewTaskBriefPrompt()
	s.AddPrompt(briefPrompt.Definition(), briefPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(svc, log)
	s.AddResource(resourceHandler.BoardResource(), resourceHandler.HandleBoard)
	s.AddResource(resourceHandler.UsersResource(), resourceHandler.HandleUsers)

	log.WithFields(logrus.Fields{
		"server":   cfg.Server.Name,
		"version":  Version,
		"base_url": cfg.KanbanFlow.BaseURL,
		"breaker":  cfg.KanbanFlow.BreakerFailures > 0,
	}).Info("mcp server configured")

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use the board tools.
func serverInstructions() string {
	return `You have read-only access to a KanbanFlow board.

## Tools
- getBoard: columns (with ids), swimlanes and colors. Call it first when you
  need to name or filter by a column.
- getAllTasks: every task, grouped by column.
- getTasksByColumn: tasks of one column, selected by columnId, columnName or
  columnIndex (0-based). With a limit, check pagination.hasMore and pass
  pagination.nextTaskId as startTaskId to fetch the next page.
- getTaskById: one task. Use includePosition=true to learn its position.
- getComments: the comment thread of a task.
- getUsers: board members.
- clearUserCache: forget cached user names after people join or are renamed.

## Reading results
Tasks carry responsibleUserName and collaborators[].userName, and comments
carry authorUserName, when the user id is known. A missing name only means
the user could not be resolved; the rest of the data is complete.

Errors come back as text starting with "Error fetching". They include the
KanbanFlow status code when the API answered. Do not retry 4xx errors with
the same arguments.

Nothing here can modify the board.`
}

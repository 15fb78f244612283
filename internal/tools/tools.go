// Package tools implements the MCP tools that expose the KanbanFlow board.
//
// Each tool is a struct with injected dependencies, a Definition for
// registration and a Handle method. All tools are read-only. Remote
// failures are returned as MCP error results, never as Go errors, so the
// client sees the status code and message.
package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/HendryAvila/kanbanflow-mcp/internal/enrich"
	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/HendryAvila/kanbanflow-mcp/internal/service"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// Service is the operations façade the tools call. *service.Service
// satisfies it.
type Service interface {
	GetBoard(ctx context.Context) (*kanbanflow.Board, error)
	GetTasks(ctx context.Context, filter *kanbanflow.TaskFilter) (*service.TasksResult, error)
	GetTaskByID(ctx context.Context, taskID string, includePosition bool) (*enrich.Task, error)
	GetUsers(ctx context.Context) ([]kanbanflow.User, error)
	GetComments(ctx context.Context, taskID string) ([]enrich.Comment, error)
	InvalidateUsers()
}

// Outcome labels for invocation metrics besides the error kinds.
const (
	outcomeSuccess         = "success"
	outcomeInvalidArgument = "invalid_arguments"
)

// Instrument logs and measures every tool invocation.
type Instrument struct {
	log     logrus.FieldLogger
	metrics *Metrics
}

// NewInstrument creates an Instrument. Either argument may be nil.
func NewInstrument(log logrus.FieldLogger, metrics *Metrics) *Instrument {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Instrument{log: log, metrics: metrics}
}

// call is the body of one tool invocation. It returns the value to render
// and extra fields for the success log line.
type call func(ctx context.Context) (any, logrus.Fields, error)

// run executes fn with an invocation id, logs the three lifecycle lines and
// turns a failure into an MCP error result prefixed with failure.
func (in *Instrument) run(ctx context.Context, tool string, fields logrus.Fields, failure string, fn call) (*mcp.CallToolResult, error) {
	log := in.log.WithFields(logrus.Fields{
		"tool":          tool,
		"invocation_id": uuid.NewString(),
	}).WithFields(fields)

	log.Info("mcp tool invoked")
	start := time.Now()

	value, extra, err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		var argErr *argumentError
		if errors.As(err, &argErr) {
			in.metrics.observe(tool, outcomeInvalidArgument, elapsed)
			log.WithField("error", err.Error()).Warn("mcp tool rejected arguments")
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %s", err)), nil
		}

		in.metrics.observe(tool, kanbanflow.KindOf(err), elapsed)
		log.WithFields(logrus.Fields(kanbanflow.ErrorFields(err))).
			WithField("duration_ms", elapsed.Milliseconds()).
			Error("mcp tool failed")
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", failure, err)), nil
	}

	result, err := jsonText(value)
	if err != nil {
		return nil, err
	}
	in.metrics.observe(tool, outcomeSuccess, elapsed)
	log.WithFields(extra).WithField("duration_ms", elapsed.Milliseconds()).Info("mcp tool succeeded")
	return result, nil
}

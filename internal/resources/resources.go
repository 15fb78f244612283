// Package resources implements MCP resource handlers for the board.
//
// Resources provide read-only data that the host can attach as context
// without a tool call. They use kanbanflow:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// Resource URIs.
const (
	BoardURI = "kanbanflow://board"
	UsersURI = "kanbanflow://users"
)

// Source is the read side the resources need. *service.Service satisfies it.
type Source interface {
	GetBoard(ctx context.Context) (*kanbanflow.Board, error)
	GetUsers(ctx context.Context) ([]kanbanflow.User, error)
}

// Handler manages the board resource endpoints.
type Handler struct {
	src Source
	log logrus.FieldLogger
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(src Source, log logrus.FieldLogger) *Handler {
	return &Handler{src: src, log: log}
}

// BoardResource returns the MCP resource definition for the board layout.
func (h *Handler) BoardResource() mcp.Resource {
	return mcp.NewResource(
		BoardURI,
		"KanbanFlow board",
		mcp.WithResourceDescription("Board columns, swimlanes and colors"),
		mcp.WithMIMEType("application/json"),
	)
}

// UsersResource returns the MCP resource definition for the user list.
func (h *Handler) UsersResource() mcp.Resource {
	return mcp.NewResource(
		UsersURI,
		"KanbanFlow users",
		mcp.WithResourceDescription("Users of the board with ids and full names"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleBoard returns the board as JSON.
func (h *Handler) HandleBoard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	board, err := h.src.GetBoard(ctx)
	if err != nil {
		return h.failed(req.Params.URI, err), nil
	}
	return jsonResource(req.Params.URI, board)
}

// HandleUsers returns the user list as JSON.
func (h *Handler) HandleUsers(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := h.src.GetUsers(ctx)
	if err != nil {
		return h.failed(req.Params.URI, err), nil
	}
	return jsonResource(req.Params.URI, list)
}

func (h *Handler) failed(uri string, err error) []mcp.ResourceContents {
	if h.log != nil {
		h.log.WithFields(logrus.Fields(kanbanflow.ErrorFields(err))).
			WithField("uri", uri).
			Error("mcp resource read failed")
	}
	return errorResource(uri, err.Error())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}

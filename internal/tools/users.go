package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// UsersTool handles the getUsers MCP tool.
type UsersTool struct {
	svc Service
	in  *Instrument
}

// NewUsersTool creates a UsersTool.
func NewUsersTool(svc Service, in *Instrument) *UsersTool {
	return &UsersTool{svc: svc, in: in}
}

// Definition returns the MCP tool definition for getUsers.
func (t *UsersTool) Definition() mcp.Tool {
	return mcp.NewTool("getUsers",
		mcp.WithDescription("List the users of the KanbanFlow board with their ids and names."),
		mcp.WithTitleAnnotation("Get users"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// Handle processes the getUsers tool call.
func (t *UsersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.in.run(ctx, "getUsers", nil, "Error fetching users", func(ctx context.Context) (any, logrus.Fields, error) {
		list, err := t.svc.GetUsers(ctx)
		if err != nil {
			return nil, nil, err
		}
		return list, logrus.Fields{"usersCount": len(list)}, nil
	})
}

// ClearUserCacheTool handles the clearUserCache MCP tool.
type ClearUserCacheTool struct {
	svc Service
	in  *Instrument
}

// NewClearUserCacheTool creates a ClearUserCacheTool.
func NewClearUserCacheTool(svc Service, in *Instrument) *ClearUserCacheTool {
	return &ClearUserCacheTool{svc: svc, in: in}
}

// Definition returns the MCP tool definition for clearUserCache.
func (t *ClearUserCacheTool) Definition() mcp.Tool {
	return mcp.NewTool("clearUserCache",
		mcp.WithDescription(
			"Forget the cached user directory. The next task or comment lookup "+
				"reloads users from KanbanFlow. Use after people join or are renamed.",
		),
		mcp.WithTitleAnnotation("Clear user cache"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

// cacheCleared is the clearUserCache result.
type cacheCleared struct {
	Cleared bool `json:"cleared"`
}

// Handle processes the clearUserCache tool call.
func (t *ClearUserCacheTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.in.run(ctx, "clearUserCache", nil, "Error clearing user cache", func(context.Context) (any, logrus.Fields, error) {
		t.svc.InvalidateUsers()
		return cacheCleared{Cleared: true}, nil, nil
	})
}

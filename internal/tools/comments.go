package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// CommentsTool handles the getComments MCP tool.
type CommentsTool struct {
	svc Service
	in  *Instrument
}

// NewCommentsTool creates a CommentsTool.
func NewCommentsTool(svc Service, in *Instrument) *CommentsTool {
	return &CommentsTool{svc: svc, in: in}
}

// Definition returns the MCP tool definition for getComments.
func (t *CommentsTool) Definition() mcp.Tool {
	return mcp.NewTool("getComments",
		mcp.WithDescription("Get the comments of a task from KanbanFlow, with author names resolved."),
		mcp.WithTitleAnnotation("Get task comments"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task whose comments to retrieve"),
		),
	)
}

// Handle processes the getComments tool call.
func (t *CommentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("taskId", "")

	fields := logrus.Fields{"taskId": taskID}
	failure := fmt.Sprintf("Error fetching comments for task %s", taskID)
	return t.in.run(ctx, "getComments", fields, failure, func(ctx context.Context) (any, logrus.Fields, error) {
		if taskID == "" {
			return nil, nil, invalidArgument("'taskId' is required")
		}
		comments, err := t.svc.GetComments(ctx, taskID)
		if err != nil {
			return nil, nil, err
		}
		return comments, logrus.Fields{"commentsCount": len(comments)}, nil
	})
}

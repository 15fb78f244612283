package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// TaskTool handles the getTaskById MCP tool.
type TaskTool struct {
	svc Service
	in  *Instrument
}

// NewTaskTool creates a TaskTool.
func NewTaskTool(svc Service, in *Instrument) *TaskTool {
	return &TaskTool{svc: svc, in: in}
}

// Definition returns the MCP tool definition for getTaskById.
func (t *TaskTool) Definition() mcp.Tool {
	return mcp.NewTool("getTaskById",
		mcp.WithDescription("Get a specific task by ID from KanbanFlow, with user names resolved."),
		mcp.WithTitleAnnotation("Get task"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to retrieve"),
		),
		mcp.WithBoolean("includePosition",
			mcp.Description("Include the task's position in the column"),
		),
	)
}

// Handle processes the getTaskById tool call.
func (t *TaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("taskId", "")
	includePosition := boolArg(req, "includePosition", false)

	fields := logrus.Fields{"taskId": taskID}
	failure := fmt.Sprintf("Error fetching task %s", taskID)
	return t.in.run(ctx, "getTaskById", fields, failure, func(ctx context.Context) (any, logrus.Fields, error) {
		if taskID == "" {
			return nil, nil, invalidArgument("'taskId' is required")
		}
		task, err := t.svc.GetTaskByID(ctx, taskID, includePosition)
		if err != nil {
			return nil, nil, err
		}
		return task, logrus.Fields{"taskName": task.Name}, nil
	})
}

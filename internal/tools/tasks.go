package tools

import (
	"context"

	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// AllTasksTool handles the getAllTasks MCP tool.
type AllTasksTool struct {
	svc Service
	in  *Instrument
}

// NewAllTasksTool creates an AllTasksTool.
func NewAllTasksTool(svc Service, in *Instrument) *AllTasksTool {
	return &AllTasksTool{svc: svc, in: in}
}

// Definition returns the MCP tool definition for getAllTasks.
func (t *AllTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("getAllTasks",
		mcp.WithDescription(
			"Get all tasks from KanbanFlow, grouped by column. "+
				"Responsible users and collaborators are annotated with their names.",
		),
		mcp.WithTitleAnnotation("Get all tasks"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// Handle processes the getAllTasks tool call.
func (t *AllTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.in.run(ctx, "getAllTasks", nil, "Error fetching tasks", func(ctx context.Context) (any, logrus.Fields, error) {
		res, err := t.svc.GetTasks(ctx, nil)
		if err != nil {
			return nil, nil, err
		}
		return res.Columns, logrus.Fields{
			"columnsCount": len(res.Columns),
			"totalTasks":   res.TotalTasks(),
		}, nil
	})
}

// TasksByColumnTool handles the getTasksByColumn MCP tool.
type TasksByColumnTool struct {
	svc      Service
	in       *Instrument
	validate *validator.Validate
}

// NewTasksByColumnTool creates a TasksByColumnTool.
func NewTasksByColumnTool(svc Service, in *Instrument) *TasksByColumnTool {
	return &TasksByColumnTool{svc: svc, in: in, validate: validator.New()}
}

// Definition returns the MCP tool definition for getTasksByColumn.
func (t *TasksByColumnTool) Definition() mcp.Tool {
	return mcp.NewTool("getTasksByColumn",
		mcp.WithDescription(
			"Get tasks filtered by column from KanbanFlow. Select the column by columnId, "+
				"columnName or columnIndex (first one given wins, in that order). "+
				"Results are paginated when a limit is set: the response carries "+
				"pagination.hasMore and pagination.nextTaskId; pass nextTaskId back as startTaskId "+
				"to get the next page.",
		),
		mcp.WithTitleAnnotation("Get tasks by column"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("columnId",
			mcp.Description("Filter by column ID"),
		),
		mcp.WithString("columnName",
			mcp.Description("Filter by column name"),
		),
		mcp.WithNumber("columnIndex",
			mcp.Description("Filter by column index (0-based)"),
		),
		mcp.WithString("startTaskId",
			mcp.Description("Resume after this task: the nextTaskId of the previous page"),
		),
		mcp.WithString("startGroupingDate",
			mcp.Description("Resume from this grouping date, for columns grouped by date"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks per column"),
		),
		mcp.WithString("order",
			mcp.Description("Order of tasks: asc or desc"),
			mcp.Enum(kanbanflow.OrderAsc, kanbanflow.OrderDesc),
		),
		mcp.WithBoolean("includePosition",
			mcp.Description("Include each task's position in its column"),
		),
	)
}

// columnArgs are the validated getTasksByColumn arguments.
type columnArgs struct {
	ColumnIndex *int   `validate:"omitempty,gte=0"`
	Limit       int    `validate:"gte=0"`
	Order       string `validate:"omitempty,oneof=asc desc"`
}

// Handle processes the getTasksByColumn tool call.
func (t *TasksByColumnTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := &kanbanflow.TaskFilter{
		ColumnID:          req.GetString("columnId", ""),
		ColumnName:        req.GetString("columnName", ""),
		StartTaskID:       req.GetString("startTaskId", ""),
		StartGroupingDate: req.GetString("startGroupingDate", ""),
		Order:             req.GetString("order", ""),
		IncludePosition:   boolArg(req, "includePosition", false),
	}
	index, argErr := optionalIntArg(req, "columnIndex")
	filter.ColumnIndex = index
	if argErr == nil {
		var limit *int
		if limit, argErr = optionalIntArg(req, "limit"); limit != nil {
			filter.Limit = *limit
		}
	}

	fields := logrus.Fields{"filter": filter}
	return t.in.run(ctx, "getTasksByColumn", fields, "Error fetching tasks by column", func(ctx context.Context) (any, logrus.Fields, error) {
		if argErr != nil {
			return nil, nil, argErr
		}
		if err := t.check(filter); err != nil {
			return nil, nil, err
		}

		res, err := t.svc.GetTasks(ctx, filter)
		if err != nil {
			return nil, nil, err
		}
		extra := logrus.Fields{
			"columnsCount": len(res.Columns),
			"totalTasks":   res.TotalTasks(),
		}
		if res.Pagination != nil {
			extra["hasMore"] = res.Pagination.HasMore
		}
		return res, extra, nil
	})
}

func (t *TasksByColumnTool) check(f *kanbanflow.TaskFilter) error {
	err := t.validate.Struct(columnArgs{ColumnIndex: f.ColumnIndex, Limit: f.Limit, Order: f.Order})
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Field() {
		case "ColumnIndex":
			return invalidArgument("columnIndex must be zero or greater")
		case "Limit":
			return invalidArgument("limit must be zero or greater")
		case "Order":
			return invalidArgument("order must be %q or %q", kanbanflow.OrderAsc, kanbanflow.OrderDesc)
		}
	}
	return invalidArgument("%v", err)
}

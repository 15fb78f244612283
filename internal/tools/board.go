package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// BoardTool handles the getBoard MCP tool.
type BoardTool struct {
	svc Service
	in  *Instrument
}

// NewBoardTool creates a BoardTool.
func NewBoardTool(svc Service, in *Instrument) *BoardTool {
	return &BoardTool{svc: svc, in: in}
}

// Definition returns the MCP tool definition for getBoard.
func (t *BoardTool) Definition() mcp.Tool {
	return mcp.NewTool("getBoard",
		mcp.WithDescription(
			"Get the board structure including columns, swimlanes, and colors from KanbanFlow. "+
				"Use the column ids or names from here to filter getTasksByColumn.",
		),
		mcp.WithTitleAnnotation("Get board"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// Handle processes the getBoard tool call.
func (t *BoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.in.run(ctx, "getBoard", nil, "Error fetching board", func(ctx context.Context) (any, logrus.Fields, error) {
		board, err := t.svc.GetBoard(ctx)
		if err != nil {
			return nil, nil, err
		}
		return board, logrus.Fields{
			"columnsCount":   len(board.Columns),
			"swimlanesCount": len(board.Swimlanes),
		}, nil
	})
}

// Package prompts implements MCP prompt handlers for the board.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to call the board tools in a specific sequence.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// BoardOverviewPrompt handles the board-overview MCP prompt.
type BoardOverviewPrompt struct{}

// NewBoardOverviewPrompt creates a BoardOverviewPrompt.
func NewBoardOverviewPrompt() *BoardOverviewPrompt {
	return &BoardOverviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *BoardOverviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-overview",
		mcp.WithPromptDescription(
			"Summarize the KanbanFlow board: columns, how many tasks each holds, "+
				"and who is working on what.",
		),
	)
}

// Handle processes the board-overview prompt request.
func (p *BoardOverviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "KanbanFlow board overview",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Give me an overview of our KanbanFlow board.\n\n" +
						"Please:\n" +
						"1. Run `getBoard` to learn the columns and swimlanes\n" +
						"2. Run `getAllTasks` to fetch every task, grouped by column\n" +
						"3. Show each column with its task count, in board order\n" +
						"4. List who is responsible for open work, using responsibleUserName\n" +
						"5. Point out columns that look overloaded and tasks nobody owns",
				),
			},
		},
	}, nil
}

// TaskBriefPrompt handles the task-brief MCP prompt.
type TaskBriefPrompt struct{}

// NewTaskBriefPrompt creates a TaskBriefPrompt.
func NewTaskBriefPrompt() *TaskBriefPrompt {
	return &TaskBriefPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TaskBriefPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("task-brief",
		mcp.WithPromptDescription("Brief me on one task: details, people involved and the comment thread."),
		mcp.WithArgument("task_id",
			mcp.ArgumentDescription("ID of the KanbanFlow task"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the task-brief prompt request.
func (p *TaskBriefPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	taskID := ""
	if args := req.Params.Arguments; args != nil {
		taskID = strings.TrimSpace(args["task_id"])
	}
	if taskID == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Brief for task %s", taskID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Brief me on KanbanFlow task %s.\n\n"+
						"Please:\n"+
						"1. Run `getTaskById` with taskId='%s' and includePosition=true\n"+
						"2. Run `getComments` with taskId='%s'\n"+
						"3. Summarize what the task is about, its column and who owns it\n"+
						"4. Summarize the comment thread by author, oldest first\n"+
						"5. End with open questions or blockers mentioned in the comments",
					taskID, taskID, taskID,
				)),
			},
		},
	}, nil
}

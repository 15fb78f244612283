// Package service is the operations façade: each method fetches from the
// KanbanFlow client and decorates the result with user names.
//
// Fetch errors are returned exactly as the client produced them and no
// enrichment is attempted for a failed fetch.
package service

import (
	"context"

	"github.com/HendryAvila/kanbanflow-mcp/internal/enrich"
	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
)

// Client is the subset of *kanbanflow.Client the service uses.
type Client interface {
	GetBoard(ctx context.Context) (*kanbanflow.Board, error)
	GetTasks(ctx context.Context, filter *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error)
	GetTaskByID(ctx context.Context, taskID string, includePosition bool) (*kanbanflow.Task, error)
	GetUsers(ctx context.Context) ([]kanbanflow.User, error)
	GetComments(ctx context.Context, taskID string) ([]kanbanflow.Comment, error)
}

// Invalidator drops cached user data. *users.Directory satisfies it.
type Invalidator interface {
	Invalidate()
}

// Pagination summarizes a filtered GET /tasks page.
type Pagination struct {
	// HasMore is true when any column was cut off by the page limit.
	HasMore bool `json:"hasMore"`
	// NextTaskID is the first cursor found, scanning columns in order.
	NextTaskID string                `json:"nextTaskId,omitempty"`
	Filter     kanbanflow.TaskFilter `json:"filter"`
}

// TasksResult is the output of GetTasks.
type TasksResult struct {
	Columns []enrich.Column `json:"columns"`
	// Pagination is only set when a non-empty filter was supplied.
	Pagination *Pagination `json:"pagination,omitempty"`
}

// TotalTasks counts the tasks across all columns.
func (r *TasksResult) TotalTasks() int {
	n := 0
	for _, col := range r.Columns {
		n += len(col.Tasks)
	}
	return n
}

// Service exposes the read operations.
type Service struct {
	client   Client
	enricher *enrich.Enricher
	cache    Invalidator
}

// New creates a Service. cache may be nil when there is nothing to clear.
func New(client Client, enricher *enrich.Enricher, cache Invalidator) *Service {
	return &Service{client: client, enricher: enricher, cache: cache}
}

// GetBoard returns the board structure. Boards carry no user ids, so
// nothing is enriched.
func (s *Service) GetBoard(ctx context.Context) (*kanbanflow.Board, error) {
	return s.client.GetBoard(ctx)
}

// GetTasks returns tasks grouped by column, decorated with user names.
func (s *Service) GetTasks(ctx context.Context, filter *kanbanflow.TaskFilter) (*TasksResult, error) {
	resp, err := s.client.GetTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &TasksResult{Columns: s.enricher.Tasks(ctx, resp)}
	if !filter.IsZero() {
		result.Pagination = paginate(resp, *filter)
	}
	return result, nil
}

// GetTaskByID returns one task, decorated with user names.
func (s *Service) GetTaskByID(ctx context.Context, taskID string, includePosition bool) (*enrich.Task, error) {
	task, err := s.client.GetTaskByID(ctx, taskID, includePosition)
	if err != nil {
		return nil, err
	}
	enriched := s.enricher.Task(ctx, *task)
	return &enriched, nil
}

// GetUsers returns the board's users straight from the API.
func (s *Service) GetUsers(ctx context.Context) ([]kanbanflow.User, error) {
	return s.client.GetUsers(ctx)
}

// GetComments returns the comments of a task with author names.
func (s *Service) GetComments(ctx context.Context, taskID string) ([]enrich.Comment, error) {
	comments, err := s.client.GetComments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.enricher.Comments(ctx, comments), nil
}

// InvalidateUsers drops the cached user directory.
func (s *Service) InvalidateUsers() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// paginate derives the page summary. When several columns are cut off at
// once only the first column's cursor is reported.
func paginate(resp kanbanflow.TasksResponse, filter kanbanflow.TaskFilter) *Pagination {
	p := &Pagination{Filter: filter}
	for _, col := range resp {
		if col.TasksLimited {
			p.HasMore = true
		}
		if p.NextTaskID == "" && col.NextTaskID != nil {
			p.NextTaskID = *col.NextTaskID
		}
	}
	return p
}

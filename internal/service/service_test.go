package service

import (
	"context"
	"errors"
	"testing"

	"github.com/HendryAvila/kanbanflow-mcp/internal/enrich"
	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/HendryAvila/kanbanflow-mcp/internal/users"
)

type stubClient struct {
	getBoardFn    func(ctx context.Context) (*kanbanflow.Board, error)
	getTasksFn    func(ctx context.Context, f *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error)
	getTaskFn     func(ctx context.Context, id string, pos bool) (*kanbanflow.Task, error)
	getCommentsFn func(ctx context.Context, id string) ([]kanbanflow.Comment, error)
	userCalls     int
}

func (s *stubClient) GetBoard(ctx context.Context) (*kanbanflow.Board, error) {
	if s.getBoardFn == nil {
		return nil, errors.New("unexpected GetBoard call")
	}
	return s.getBoardFn(ctx)
}

func (s *stubClient) GetTasks(ctx context.Context, f *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error) {
	if s.getTasksFn == nil {
		return nil, errors.New("unexpected GetTasks call")
	}
	return s.getTasksFn(ctx, f)
}

func (s *stubClient) GetTaskByID(ctx context.Context, id string, pos bool) (*kanbanflow.Task, error) {
	if s.getTaskFn == nil {
		return nil, errors.New("unexpected GetTaskByID call")
	}
	return s.getTaskFn(ctx, id, pos)
}

func (s *stubClient) GetUsers(context.Context) ([]kanbanflow.User, error) {
	s.userCalls++
	return []kanbanflow.User{{ID: "u1", FullName: "Ana"}}, nil
}

func (s *stubClient) GetComments(ctx context.Context, id string) ([]kanbanflow.Comment, error) {
	if s.getCommentsFn == nil {
		return nil, errors.New("unexpected GetComments call")
	}
	return s.getCommentsFn(ctx, id)
}

func newTestService(c *stubClient) (*Service, *users.Directory) {
	dir := users.NewDirectory(c)
	return New(c, enrich.New(dir), dir), dir
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func task(id string) kanbanflow.Task {
	return kanbanflow.Task{ID: id, Name: "task " + id, Color: "green", ColumnID: "c1", ResponsibleUserID: strPtr("u1")}
}

// ─── GetTaskByID ─────────────────────────────────────────────────────────────

func TestService_GetTaskByID_Enriches(t *testing.T) {
	c := &stubClient{getTaskFn: func(_ context.Context, id string, pos bool) (*kanbanflow.Task, error) {
		if !pos {
			t.Error("includePosition should be forwarded")
		}
		tk := task(id)
		return &tk, nil
	}}
	svc, _ := newTestService(c)

	got, err := svc.GetTaskByID(context.Background(), "t1", true)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got.ID != "t1" || got.ResponsibleUserName != "Ana" {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestService_GetTaskByID_RemoteErrorPropagatesWithoutEnrichment(t *testing.T) {
	remote := &kanbanflow.RemoteError{Op: "getTaskById", StatusCode: 404, Body: "Not Found"}
	c := &stubClient{getTaskFn: func(context.Context, string, bool) (*kanbanflow.Task, error) {
		return nil, remote
	}}
	svc, _ := newTestService(c)

	got, err := svc.GetTaskByID(context.Background(), "t1", false)
	if got != nil {
		t.Error("no task should be returned on failure")
	}
	var remoteErr *kanbanflow.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *RemoteError, got %T: %v", err, err)
	}
	if remoteErr.StatusCode != 404 || remoteErr.Body != "Not Found" {
		t.Errorf("error details lost: %+v", remoteErr)
	}
	if c.userCalls != 0 {
		t.Errorf("enrichment attempted: GetUsers called %d times", c.userCalls)
	}
}

// ─── GetTasks ────────────────────────────────────────────────────────────────

func TestService_GetTasks_NoFilterNoPagination(t *testing.T) {
	c := &stubClient{getTasksFn: func(_ context.Context, f *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error) {
		if f != nil {
			t.Errorf("filter = %+v, want nil", f)
		}
		return kanbanflow.TasksResponse{{ColumnID: "c1", ColumnName: "To-do", Tasks: []kanbanflow.Task{task("t1")}}}, nil
	}}
	svc, _ := newTestService(c)

	res, err := svc.GetTasks(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if res.Pagination != nil {
		t.Error("pagination should be omitted without a filter")
	}
	if res.TotalTasks() != 1 || res.Columns[0].Tasks[0].ResponsibleUserName != "Ana" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestService_GetTasks_PaginationMetadata(t *testing.T) {
	filter := &kanbanflow.TaskFilter{ColumnIndex: intPtr(0), Limit: 2}
	c := &stubClient{getTasksFn: func(context.Context, *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error) {
		return kanbanflow.TasksResponse{
			{ColumnID: "c1", ColumnName: "To-do", TasksLimited: true, NextTaskID: strPtr("t3"),
				Tasks: []kanbanflow.Task{task("t1"), task("t2")}},
		}, nil
	}}
	svc, _ := newTestService(c)

	res, err := svc.GetTasks(context.Background(), filter)
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if res.Pagination == nil {
		t.Fatal("pagination should be present when a filter is supplied")
	}
	if !res.Pagination.HasMore {
		t.Error("HasMore should be true")
	}
	if res.Pagination.NextTaskID != "t3" {
		t.Errorf("NextTaskID = %q, want t3", res.Pagination.NextTaskID)
	}
	if res.Pagination.Filter.Limit != 2 || *res.Pagination.Filter.ColumnIndex != 0 {
		t.Errorf("filter echo = %+v", res.Pagination.Filter)
	}
}

func TestService_GetTasks_FirstCursorWins(t *testing.T) {
	c := &stubClient{getTasksFn: func(context.Context, *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error) {
		return kanbanflow.TasksResponse{
			{ColumnID: "c1", ColumnName: "A", Tasks: []kanbanflow.Task{}},
			{ColumnID: "c2", ColumnName: "B", TasksLimited: true, NextTaskID: strPtr("b9"), Tasks: []kanbanflow.Task{}},
			{ColumnID: "c3", ColumnName: "C", TasksLimited: true, NextTaskID: strPtr("c9"), Tasks: []kanbanflow.Task{}},
		}, nil
	}}
	svc, _ := newTestService(c)

	res, err := svc.GetTasks(context.Background(), &kanbanflow.TaskFilter{Limit: 1})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if res.Pagination.NextTaskID != "b9" {
		t.Errorf("NextTaskID = %q, want b9", res.Pagination.NextTaskID)
	}
}

func TestService_GetTasks_NotTruncated(t *testing.T) {
	c := &stubClient{getTasksFn: func(context.Context, *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error) {
		return kanbanflow.TasksResponse{{ColumnID: "c1", ColumnName: "A", Tasks: []kanbanflow.Task{task("t1")}}}, nil
	}}
	svc, _ := newTestService(c)

	res, err := svc.GetTasks(context.Background(), &kanbanflow.TaskFilter{ColumnID: "c1"})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if res.Pagination.HasMore || res.Pagination.NextTaskID != "" {
		t.Errorf("unexpected pagination: %+v", res.Pagination)
	}
}

func TestService_GetTasks_ErrorPropagates(t *testing.T) {
	boom := &kanbanflow.TransportError{Op: "getTasks", Err: errors.New("dial tcp: refused")}
	c := &stubClient{getTasksFn: func(context.Context, *kanbanflow.TaskFilter) (kanbanflow.TasksResponse, error) {
		return nil, boom
	}}
	svc, _ := newTestService(c)

	if _, err := svc.GetTasks(context.Background(), nil); err != boom {
		t.Errorf("err = %v, want the client's error unchanged", err)
	}
	if c.userCalls != 0 {
		t.Error("no enrichment on failure")
	}
}

// ─── GetComments / GetUsers / GetBoard ───────────────────────────────────────

func TestService_GetComments_Enriches(t *testing.T) {
	c := &stubClient{getCommentsFn: func(_ context.Context, id string) ([]kanbanflow.Comment, error) {
		return []kanbanflow.Comment{{ID: "m1", TaskID: id, AuthorUserID: "u1", Text: "hi"}}, nil
	}}
	svc, _ := newTestService(c)

	got, err := svc.GetComments(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(got) != 1 || got[0].AuthorUserName != "Ana" || got[0].TaskID != "t1" {
		t.Errorf("unexpected comments: %+v", got)
	}
}

func TestService_GetUsersAndBoard(t *testing.T) {
	c := &stubClient{getBoardFn: func(context.Context) (*kanbanflow.Board, error) {
		return &kanbanflow.Board{ID: "b1", Name: "Product"}, nil
	}}
	svc, _ := newTestService(c)

	board, err := svc.GetBoard(context.Background())
	if err != nil || board.ID != "b1" {
		t.Fatalf("GetBoard = %+v, %v", board, err)
	}
	list, err := svc.GetUsers(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("GetUsers = %+v, %v", list, err)
	}
}

func TestService_InvalidateUsers(t *testing.T) {
	c := &stubClient{getTaskFn: func(_ context.Context, id string, _ bool) (*kanbanflow.Task, error) {
		tk := task(id)
		return &tk, nil
	}}
	svc, dir := newTestService(c)
	ctx := context.Background()

	_, _ = svc.GetTaskByID(ctx, "t1", false)
	_, _ = svc.GetTaskByID(ctx, "t2", false)
	if c.userCalls != 1 {
		t.Fatalf("GetUsers called %d times, want 1", c.userCalls)
	}

	svc.InvalidateUsers()
	if dir.Loaded() {
		t.Error("directory should be cleared")
	}
	_, _ = svc.GetTaskByID(ctx, "t3", false)
	if c.userCalls != 2 {
		t.Errorf("GetUsers called %d times, want 2", c.userCalls)
	}
}

package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/HendryAvila/kanbanflow-mcp/internal/users"
)

type stubDirectory struct {
	lookup users.Lookup
	err    error
	calls  int
}

func (s *stubDirectory) Lookup(context.Context) (users.Lookup, error) {
	s.calls++
	return s.lookup, s.err
}

func directoryWithAna() *stubDirectory {
	return &stubDirectory{lookup: users.Lookup{
		"u1": {ID: "u1", FullName: "Ana"},
		"u2": {ID: "u2", FullName: "Bo"},
	}}
}

func strPtr(s string) *string { return &s }

func baseTask() kanbanflow.Task {
	return kanbanflow.Task{
		ID:          "t1",
		Name:        "Ship it",
		Color:       "green",
		ColumnID:    "c1",
		Description: strPtr("details"),
	}
}

// encode returns the task as a generic JSON map.
func encode(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

// ─── Task ────────────────────────────────────────────────────────────────────

func TestEnricher_Task_ResolvesResponsibleUser(t *testing.T) {
	task := baseTask()
	task.ResponsibleUserID = strPtr("u1")

	got := New(directoryWithAna()).Task(context.Background(), task)

	if got.ResponsibleUserName != "Ana" {
		t.Errorf("ResponsibleUserName = %q, want Ana", got.ResponsibleUserName)
	}
	m := encode(t, got)
	if m["responsibleUserName"] != "Ana" || m["responsibleUserId"] != "u1" {
		t.Errorf("encoded task = %v", m)
	}
}

func TestEnricher_Task_UnresolvedResponsibleUserAddsNothing(t *testing.T) {
	task := baseTask()
	task.ResponsibleUserID = strPtr("ghost")

	got := New(directoryWithAna()).Task(context.Background(), task)

	m := encode(t, got)
	if _, ok := m["responsibleUserName"]; ok {
		t.Error("unresolved user must not add a name field")
	}
	if !reflect.DeepEqual(encode(t, task), m) {
		t.Errorf("original fields changed:\n got %v\nwant %v", m, encode(t, task))
	}
}

func TestEnricher_Task_CollaboratorsKeepLengthAndOrder(t *testing.T) {
	task := baseTask()
	task.Collaborators = []kanbanflow.TaskCollaborator{{UserID: "u2"}, {UserID: "ghost"}, {UserID: "u1"}}

	got := New(directoryWithAna()).Task(context.Background(), task)

	want := []Collaborator{
		{UserID: "u2", UserName: "Bo"},
		{UserID: "ghost"},
		{UserID: "u1", UserName: "Ana"},
	}
	if !reflect.DeepEqual(got.Collaborators, want) {
		t.Errorf("Collaborators = %+v, want %+v", got.Collaborators, want)
	}

	data, _ := json.Marshal(got)
	if !strings.Contains(string(data), `{"userId":"ghost"}`) {
		t.Errorf("unresolved collaborator should have no userName: %s", data)
	}
}

func TestEnricher_Task_CollaboratorPresenceIsPreserved(t *testing.T) {
	e := New(directoryWithAna())

	absent := e.Task(context.Background(), baseTask())
	if _, ok := encode(t, absent)["collaborators"]; ok {
		t.Error("absent collaborators must stay absent")
	}

	task := baseTask()
	task.Collaborators = []kanbanflow.TaskCollaborator{}
	empty := e.Task(context.Background(), task)
	data, _ := json.Marshal(empty)
	if !strings.Contains(string(data), `"collaborators":[]`) {
		t.Errorf("empty collaborators must stay empty: %s", data)
	}
}

func TestEnricher_DirectoryFailureIsSoftMiss(t *testing.T) {
	dir := &stubDirectory{err: errors.New("users endpoint down")}
	task := baseTask()
	task.ResponsibleUserID = strPtr("u1")
	task.Collaborators = []kanbanflow.TaskCollaborator{{UserID: "u1"}}

	got := New(dir).Task(context.Background(), task)

	if got.ResponsibleUserName != "" {
		t.Error("no name should be attached when the directory is unavailable")
	}
	if len(got.Collaborators) != 1 || got.Collaborators[0].UserID != "u1" {
		t.Errorf("collaborators should still be returned: %+v", got.Collaborators)
	}
	if got.ID != "t1" || got.Name != "Ship it" {
		t.Error("primary task data must be intact")
	}
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

func TestEnricher_Tasks_OneLookupForWholeResponse(t *testing.T) {
	dir := directoryWithAna()
	t1 := baseTask()
	t1.ResponsibleUserID = strPtr("u1")
	t2 := baseTask()
	t2.ID = "t2"
	t2.ResponsibleUserID = strPtr("u2")

	resp := kanbanflow.TasksResponse{
		{ColumnID: "c1", ColumnName: "To-do", TasksLimited: true, NextTaskID: strPtr("t3"), Tasks: []kanbanflow.Task{t1}},
		{ColumnID: "c2", ColumnName: "Done", Tasks: []kanbanflow.Task{t2}},
	}

	cols := New(dir).Tasks(context.Background(), resp)

	if dir.calls != 1 {
		t.Errorf("Lookup called %d times, want 1", dir.calls)
	}
	if len(cols) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols))
	}
	if cols[0].Tasks[0].ResponsibleUserName != "Ana" || cols[1].Tasks[0].ResponsibleUserName != "Bo" {
		t.Error("tasks in every column should be decorated")
	}

	m := encode(t, cols[0])
	if m["columnName"] != "To-do" || m["tasksLimited"] != true || m["nextTaskId"] != "t3" {
		t.Errorf("column fields lost: %v", m)
	}
	tasks, _ := m["tasks"].([]any)
	if len(tasks) != 1 || tasks[0].(map[string]any)["responsibleUserName"] != "Ana" {
		t.Errorf("encoded tasks should carry names: %v", m["tasks"])
	}
}

// ─── Comments ────────────────────────────────────────────────────────────────

func TestEnricher_Comments(t *testing.T) {
	comments := []kanbanflow.Comment{
		{ID: "m1", TaskID: "t1", AuthorUserID: "u1", Text: "hi", CreatedTimestamp: "2026-10-19T10:00:00Z"},
		{ID: "m2", TaskID: "t1", AuthorUserID: "ghost", Text: "?", CreatedTimestamp: "2026-10-19T11:00:00Z"},
	}

	got := New(directoryWithAna()).Comments(context.Background(), comments)

	if got[0].AuthorUserName != "Ana" {
		t.Errorf("AuthorUserName = %q, want Ana", got[0].AuthorUserName)
	}
	if _, ok := encode(t, got[1])["authorUserName"]; ok {
		t.Error("unresolved author must not add a name field")
	}
	if got[1].Text != "?" || got[1].ID != "m2" {
		t.Error("comment fields must be intact")
	}
}

func TestEnricher_Comment(t *testing.T) {
	c := kanbanflow.Comment{ID: "m1", AuthorUserID: "u2", Text: "ok"}
	got := New(directoryWithAna()).Comment(context.Background(), c)
	if got.AuthorUserName != "Bo" {
		t.Errorf("AuthorUserName = %q, want Bo", got.AuthorUserName)
	}
}

// Package enrich decorates tasks and comments with user display names.
//
// Enrichment is best-effort: an id that does not resolve, or a user
// directory that cannot be loaded at all, leaves the data undecorated but
// never fails the call.
package enrich

import (
	"context"

	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"github.com/HendryAvila/kanbanflow-mcp/internal/users"
)

// Directory provides the id → user view. *users.Directory satisfies it.
type Directory interface {
	Lookup(ctx context.Context) (users.Lookup, error)
}

// Task is a kanbanflow.Task plus resolved user names.
//
// Collaborators shadows the embedded field of the same JSON name, so the
// encoded task carries the decorated list in place of the raw one.
type Task struct {
	kanbanflow.Task
	ResponsibleUserName string         `json:"responsibleUserName,omitempty"`
	Collaborators       []Collaborator `json:"collaborators,omitzero"`
}

// Collaborator is a task collaborator with its resolved name, if any.
type Collaborator struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
}

// Column is one column page with decorated tasks.
type Column struct {
	kanbanflow.TasksColumnResponse
	Tasks []Task `json:"tasks"`
}

// Comment is a kanbanflow.Comment plus the author's name.
type Comment struct {
	kanbanflow.Comment
	AuthorUserName string `json:"authorUserName,omitempty"`
}

// Enricher joins ids against a user directory.
type Enricher struct {
	dir Directory
}

// New creates an Enricher.
func New(dir Directory) *Enricher {
	return &Enricher{dir: dir}
}

// Task decorates a single task.
func (e *Enricher) Task(ctx context.Context, task kanbanflow.Task) Task {
	return decorateTask(e.lookup(ctx), task)
}

// Tasks decorates every task of a tasks response, column by column. The
// directory is consulted once for the whole response.
func (e *Enricher) Tasks(ctx context.Context, resp kanbanflow.TasksResponse) []Column {
	l := e.lookup(ctx)
	cols := make([]Column, len(resp))
	for i, col := range resp {
		tasks := make([]Task, len(col.Tasks))
		for j, task := range col.Tasks {
			tasks[j] = decorateTask(l, task)
		}
		cols[i] = Column{TasksColumnResponse: col, Tasks: tasks}
	}
	return cols
}

// Comment decorates a single comment.
func (e *Enricher) Comment(ctx context.Context, c kanbanflow.Comment) Comment {
	return decorateComment(e.lookup(ctx), c)
}

// Comments decorates a list of comments.
func (e *Enricher) Comments(ctx context.Context, comments []kanbanflow.Comment) []Comment {
	l := e.lookup(ctx)
	out := make([]Comment, len(comments))
	for i, c := range comments {
		out[i] = decorateComment(l, c)
	}
	return out
}

// lookup returns the directory or, when it cannot be loaded, an empty
// view so that every id is a miss.
func (e *Enricher) lookup(ctx context.Context) users.Lookup {
	l, err := e.dir.Lookup(ctx)
	if err != nil {
		return users.Lookup{}
	}
	return l
}

func decorateTask(l users.Lookup, task kanbanflow.Task) Task {
	out := Task{Task: task}

	if task.ResponsibleUserID != nil {
		if name, ok := l.Name(*task.ResponsibleUserID); ok {
			out.ResponsibleUserName = name
		}
	}

	if task.Collaborators != nil {
		out.Collaborators = make([]Collaborator, len(task.Collaborators))
		for i, c := range task.Collaborators {
			name, _ := l.Name(c.UserID)
			out.Collaborators[i] = Collaborator{UserID: c.UserID, UserName: name}
		}
	}
	return out
}

func decorateComment(l users.Lookup, c kanbanflow.Comment) Comment {
	out := Comment{Comment: c}
	if name, ok := l.Name(c.AuthorUserID); ok {
		out.AuthorUserName = name
	}
	return out
}

// Package kanbanflow is a typed, read-only client for the KanbanFlow REST API.
//
// Every response is decoded into a generic JSON value and checked against a
// declarative shape (see schemas.go) before it is turned into one of the
// types below. A payload that does not match is reported as a
// *ValidationError and never partially returned.
package kanbanflow

import "encoding/json"

// Task is a single card on the board.
//
// Optional scalars are pointers and optional arrays use omitzero, so a field
// the API did not send stays absent when the task is encoded again.
type Task struct {
	ID                   string             `json:"_id"`
	Name                 string             `json:"name"`
	Description          *string            `json:"description,omitempty"`
	Color                string             `json:"color"`
	ColumnID             string             `json:"columnId"`
	SwimlaneID           *string            `json:"swimlaneId,omitempty"`
	Position             *float64           `json:"position,omitempty"`
	TotalSecondsSpent    *float64           `json:"totalSecondsSpent,omitempty"`
	TotalSecondsEstimate *float64           `json:"totalSecondsEstimate,omitempty"`
	PointsEstimate       *float64           `json:"pointsEstimate,omitempty"`
	Number               *TaskNumber        `json:"number,omitempty"`
	ResponsibleUserID    *string            `json:"responsibleUserId,omitempty"`
	Collaborators        []TaskCollaborator `json:"collaborators,omitzero"`
	GroupingDate         *string            `json:"groupingDate,omitempty"`

	// Pass-through arrays. Their elements are not interpreted.
	Dates        []json.RawMessage `json:"dates,omitzero"`
	SubTasks     []json.RawMessage `json:"subTasks,omitzero"`
	Labels       []json.RawMessage `json:"labels,omitzero"`
	CustomFields []json.RawMessage `json:"customFields,omitzero"`
}

// TaskNumber is the human-facing task number, e.g. KV-42.
type TaskNumber struct {
	Prefix *string `json:"prefix,omitempty"`
	Value  float64 `json:"value"`
}

// TaskCollaborator references a user working on a task.
type TaskCollaborator struct {
	UserID string `json:"userId"`
}

// Board is the column/swimlane/color configuration of the board.
type Board struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Columns   []BoardColumn   `json:"columns"`
	Swimlanes []BoardSwimlane `json:"swimlanes,omitzero"`
	Colors    []BoardColor    `json:"colors,omitzero"`
}

// BoardColumn is one column of the board.
type BoardColumn struct {
	Name     string `json:"name"`
	UniqueID string `json:"uniqueId"`
}

// BoardSwimlane is one swimlane of the board.
type BoardSwimlane struct {
	Name     string `json:"name"`
	UniqueID string `json:"uniqueId"`
}

// BoardColor is a named task color.
type BoardColor struct {
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	Description *string `json:"description,omitempty"`
}

// TasksColumnResponse is one page of tasks from a single column.
type TasksColumnResponse struct {
	ColumnID     string  `json:"columnId"`
	ColumnName   string  `json:"columnName"`
	TasksLimited bool    `json:"tasksLimited"`
	NextTaskID   *string `json:"nextTaskId,omitempty"`
	Tasks        []Task  `json:"tasks"`
}

// TasksResponse is the GET /tasks payload: one entry per matching column.
type TasksResponse []TasksColumnResponse

// TotalTasks counts the tasks across all columns of the response.
func (r TasksResponse) TotalTasks() int {
	n := 0
	for _, col := range r {
		n += len(col.Tasks)
	}
	return n
}

// User is a board member. Only the id and display name are used for joins.
type User struct {
	ID       string  `json:"_id"`
	FullName string  `json:"fullName"`
	Email    *string `json:"email,omitempty"`
}

// Comment is a comment on a task.
type Comment struct {
	ID               string `json:"_id"`
	TaskID           string `json:"taskId"`
	AuthorUserID     string `json:"authorUserId"`
	Text             string `json:"text"`
	CreatedTimestamp string `json:"createdTimestamp"`
}

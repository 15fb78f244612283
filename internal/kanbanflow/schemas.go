package kanbanflow

import (
	"encoding/json"
	"fmt"
)

// Response shapes, mirroring the KanbanFlow API documentation.
var (
	TaskNumberSchema = Object(
		Optional("prefix", String()),
		Required("value", Number()),
	)

	TaskCollaboratorSchema = Object(
		Required("userId", String()),
	)

	TaskSchema = Object(
		Required("_id", String()),
		Required("name", String()),
		Optional("description", String()),
		Required("color", String()),
		Required("columnId", String()),
		Optional("swimlaneId", String()),
		Optional("position", Number()),
		Optional("totalSecondsSpent", Number()),
		Optional("totalSecondsEstimate", Number()),
		Optional("pointsEstimate", Number()),
		Optional("number", TaskNumberSchema),
		Optional("responsibleUserId", String()),
		Optional("collaborators", ArrayOf(TaskCollaboratorSchema)),
		Optional("groupingDate", String()),
		Optional("dates", ArrayOf(Any())),
		Optional("subTasks", ArrayOf(Any())),
		Optional("labels", ArrayOf(Any())),
		Optional("customFields", ArrayOf(Any())),
	)

	BoardColumnSchema = Object(
		Required("name", String()),
		Required("uniqueId", String()),
	)

	BoardSwimlaneSchema = Object(
		Required("name", String()),
		Required("uniqueId", String()),
	)

	BoardColorSchema = Object(
		Required("name", String()),
		Required("value", String()),
		Optional("description", String()),
	)

	BoardSchema = Object(
		Required("_id", String()),
		Required("name", String()),
		Required("columns", ArrayOf(BoardColumnSchema)),
		Optional("swimlanes", ArrayOf(BoardSwimlaneSchema)),
		Optional("colors", ArrayOf(BoardColorSchema)),
	)

	TasksColumnSchema = Object(
		Required("columnId", String()),
		Required("columnName", String()),
		Required("tasksLimited", Bool()),
		Optional("nextTaskId", String()),
		Required("tasks", ArrayOf(TaskSchema)),
	)

	TasksResponseSchema = ArrayOf(TasksColumnSchema)

	UserSchema = Object(
		Required("_id", String()),
		Required("fullName", String()),
		Optional("email", String()),
	)

	UsersSchema = ArrayOf(UserSchema)

	CommentSchema = Object(
		Required("_id", String()),
		Optional("taskId", String()),
		Required("authorUserId", String()),
		Required("text", String()),
		Required("createdTimestamp", String()),
	)

	CommentsSchema = ArrayOf(CommentSchema)
)

// ParseBoard decodes and validates a GET /board payload.
func ParseBoard(data []byte) (*Board, error) {
	b, err := decode[Board](BoardSchema, data)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ParseTask decodes and validates a GET /tasks/{id} payload.
func ParseTask(data []byte) (*Task, error) {
	t, err := decode[Task](TaskSchema, data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseTasksResponse decodes and validates a GET /tasks payload.
func ParseTasksResponse(data []byte) (TasksResponse, error) {
	return decode[TasksResponse](TasksResponseSchema, data)
}

// ParseUsers decodes and validates a GET /users payload.
func ParseUsers(data []byte) ([]User, error) {
	return decode[[]User](UsersSchema, data)
}

// ParseComments decodes and validates a GET /tasks/{id}/comments payload.
func ParseComments(data []byte) ([]Comment, error) {
	return decode[[]Comment](CommentsSchema, data)
}

// decode runs data through schema and, only if it conforms, into T.
func decode[T any](schema *Schema, data []byte) (T, error) {
	var zero T

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return zero, &ValidationError{
			Issues: []Issue{{Message: fmt.Sprintf("malformed JSON: %v", err)}},
			Err:    err,
		}
	}
	if issues := schema.Validate(raw); len(issues) > 0 {
		return zero, &ValidationError{Issues: issues}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, &ValidationError{
			Issues: []Issue{{Message: err.Error()}},
			Err:    err,
		}
	}
	return out, nil
}

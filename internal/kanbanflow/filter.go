package kanbanflow

import (
	"net/url"
	"strconv"
)

// Sort orders accepted by GET /tasks.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TaskFilter narrows GET /tasks.
//
// Column selection is exclusive: ColumnID wins over ColumnName, which wins
// over ColumnIndex. The remaining options combine freely. Zero values mean
// "not set" and are never sent, except ColumnIndex where nil means unset
// because index 0 is a real column.
type TaskFilter struct {
	ColumnID          string `json:"columnId,omitempty"`
	ColumnName        string `json:"columnName,omitempty"`
	ColumnIndex       *int   `json:"columnIndex,omitempty"`
	StartTaskID       string `json:"startTaskId,omitempty"`
	StartGroupingDate string `json:"startGroupingDate,omitempty"`
	Limit             int    `json:"limit,omitempty"`
	Order             string `json:"order,omitempty"`
	IncludePosition   bool   `json:"includePosition,omitempty"`
}

// IsZero reports whether no option is set. A nil filter is zero.
func (f *TaskFilter) IsZero() bool {
	return f == nil || *f == (TaskFilter{})
}

// Query serializes the filter into query parameters, omitting every option
// that is not set.
func (f *TaskFilter) Query() url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}

	switch {
	case f.ColumnID != "":
		q.Set("columnId", f.ColumnID)
	case f.ColumnName != "":
		q.Set("columnName", f.ColumnName)
	case f.ColumnIndex != nil:
		q.Set("columnIndex", strconv.Itoa(*f.ColumnIndex))
	}

	if f.StartTaskID != "" {
		q.Set("startTaskId", f.StartTaskID)
	}
	if f.StartGroupingDate != "" {
		q.Set("startGroupingDate", f.StartGroupingDate)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Order != "" {
		q.Set("order", f.Order)
	}
	if f.IncludePosition {
		q.Set("includePosition", "true")
	}
	return q
}

// Package tasks implements tasks nested under projects.
package tasks

import "time"

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task is one unit of project work.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *int64     `json:"assignee_id"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Package projects implements project tracking with membership.
package projects

import "time"

// Project statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Project is one tracked project. Deleted projects keep their row with
// deleted_at set and disappear from every query.
type Project struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	OwnerID      int64      `json:"owner_id"`
	DepartmentID *int64     `json:"department_id"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Member is one project membership row.
type Member struct {
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	AddedAt   time.Time `json:"added_at"`
}

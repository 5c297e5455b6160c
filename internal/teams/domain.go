// Package teams implements teams nested under departments.
package teams

import "time"

// Team groups users inside a department.
type Team struct {
	ID           int64     `json:"id"`
	DepartmentID int64     `json:"department_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	LeadID       *int64    `json:"lead_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Member is one team membership row.
type Member struct {
	TeamID   int64     `json:"team_id"`
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

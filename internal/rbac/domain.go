// Package rbac owns role storage and the role-label vocabulary the
// authorization gate matches against.
package rbac

import "time"

// Role represents a stored role.
type Role struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DepartmentID *int64    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole links a user to a role.
type UserRole struct {
	UserID     int64     `json:"user_id"`
	RoleID     int64     `json:"role_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

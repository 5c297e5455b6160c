// Package departments implements the org-structure department resource.
package departments

import "time"

// Department is one organizational unit.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ManagerID   *int64    `json:"manager_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

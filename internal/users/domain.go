// Package users implements the user directory and account management.
package users

import (
	"time"

	"github.com/intralink/intralink/internal/shared"
)

// Account statuses. Anything other than StatusActive blocks authentication.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User represents a user account. RoleName and RoleDepartmentID are
// denormalized from the first joined role row; a user holding several roles
// may see an arbitrary one here. The authorization gate loads the complete
// set separately.
type User struct {
	ID               int64
	Email            string
	Username         string
	PasswordHash     string
	Status           string
	IsSystemAdmin    bool
	AvatarPath       *string
	RoleName         *string
	RoleDepartmentID *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Principal builds the request-scoped identity from the account row.
func (u *User) Principal() *shared.Principal {
	return &shared.Principal{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Role:          u.RoleName,
		DepartmentID:  u.RoleDepartmentID,
		IsSystemAdmin: u.IsSystemAdmin,
	}
}

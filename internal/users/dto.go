package users

import "time"

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type assignRoleRequest struct {
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
}

// UserResponse is the wire shape for a user row. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Status        string    `json:"status"`
	IsSystemAdmin bool      `json:"is_system_admin"`
	AvatarPath    *string   `json:"avatar_path"`
	Role          *string   `json:"role"`
	DepartmentID  *int64    `json:"department_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(u *User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Status:        u.Status,
		IsSystemAdmin: u.IsSystemAdmin,
		AvatarPath:    u.AvatarPath,
		Role:          u.RoleName,
		DepartmentID:  u.RoleDepartmentID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toResponses(list []User) []UserResponse {
	out := make([]UserResponse, len(list))
	for i := range list {
		out[i] = toResponse(&list[i])
	}
	return out
}

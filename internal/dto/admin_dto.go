package dto

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type AdminUpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     string `json:"role" validate:"required"`
	// Empty keeps the current password.
	Password string `json:"password" validate:"omitempty,min=6"`
}

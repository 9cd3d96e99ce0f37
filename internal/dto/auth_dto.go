package dto

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=customer consultant farmer vendor"`
}

type LoginUserRequest struct {
	// Identifier matches either the username or the email.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// ProfileRequest arrives as a multipart form so it can carry an image; the
// handler copies the fields in before validating.
type ProfileRequest struct {
	Phone   string `json:"phone" validate:"max=20"`
	Address string `json:"address" validate:"max=255"`
	Bio     string `json:"bio" validate:"max=500"`
}

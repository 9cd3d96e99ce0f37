package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleCustomer   UserRole = "customer"
	UserRoleConsultant UserRole = "consultant"
	UserRoleFarmer     UserRole = "farmer"
	UserRoleVendor     UserRole = "vendor"
)

// ParseUserRole maps a raw role string onto the closed role set. Anything
// outside the set is rejected, so role checks never run on free-form strings.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case UserRoleAdmin, UserRoleCustomer, UserRoleConsultant, UserRoleFarmer, UserRoleVendor:
		return UserRole(s), true
	}
	return "", false
}

// CanListProducts reports whether this role may publish marketplace products.
func (r UserRole) CanListProducts() bool {
	return r == UserRoleFarmer || r == UserRoleVendor
}

type User struct {
	ID uuid.UUID `db:"id" json:"id"`

	Username     string   `db:"username" json:"username"`
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Role         UserRole `db:"role" json:"role"`

	Phone           string `db:"phone" json:"phone"`
	Address         string `db:"address" json:"address"`
	Bio             string `db:"bio" json:"bio"`
	ProfileImage    string `db:"profile_image" json:"profile_image"`
	ProfileComplete bool   `db:"profile_complete" json:"profile_complete"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

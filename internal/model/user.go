package model

import (
	"time"
)

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleSalonOwner UserRole = "salon_owner"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleSalonOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	FirstName    string   `db:"first_name" json:"first_name"`
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Role         UserRole `db:"role" json:"role"`
}

// PasswordResetToken holds a sha256-hashed reset token. The plain token
// only ever travels inside the reset email.
type PasswordResetToken struct {
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
}

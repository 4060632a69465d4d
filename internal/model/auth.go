package model

import (
	"github.com/google/uuid"
)

// Actor is the authenticated identity performing an operation.
// Ownership checks in the services dispatch on Role plus the id
// relationship to the target entity.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

// AuthRequest types
type RegisterRequest struct {
	FirstName string `json:"firstname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// AuthResponse types
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

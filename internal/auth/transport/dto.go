// Package transport defines the request and response shapes for the auth module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the payload for customer self-registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"fullName" validate:"required,min=2"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
}

// CreateUserRequest is the admin payload for provisioning any account.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"fullName" validate:"required,min=2"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"required,oneof=customer salesperson admin"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	CompanyName string    `json:"companyName"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthResponse carries a signed access token and the authenticated user.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

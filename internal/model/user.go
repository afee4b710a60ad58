package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents a store account.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         *string   `json:"name,omitempty" db:"name"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// SignupRequest is the request payload for account creation.
type SignupRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the authenticated principal resolved from a session token.
type Session struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
	Role   string    `json:"role"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string  `json:"token"`
	User  Session `json:"user"`
}

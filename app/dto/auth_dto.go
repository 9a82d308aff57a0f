// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// SignupRequest represents the account registration form data
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Username        string `json:"username" validate:"required,min=3,max=30,username_format"`
	DisplayName     string `json:"display_name" validate:"required,max=60"`
	Password        string `json:"password" validate:"required,min=8,max=72,password_strength"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SignupResponse represents the response after successful registration
type SignupResponse struct {
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// LoginRequest represents the sign-in form data
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse represents the response after successful sign-in
type LoginResponse struct {
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// LogoutResponse represents the response after sign-out
type LogoutResponse struct {
	Message string `json:"message"`
}

// UserDTO represents user account data for API responses
type UserDTO struct {
	ID           uint       `json:"id"`
	UUID         string     `json:"uuid"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	Role         string     `json:"role"`
	IsActive     *bool      `json:"is_active"`
	CreatedAt    string     `json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

// SessionDTO represents session data for API responses. The token itself
// travels in the http-only cookie, never in the JSON body.
type SessionDTO struct {
	ExpiresAt string `json:"expires_at"`
	ExpiresIn int    `json:"expires_in"`
	CreatedAt string `json:"created_at"`
}

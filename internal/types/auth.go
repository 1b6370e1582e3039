package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// CreateUserRequest registers a new account with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest changes the password of the authenticated user.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// User is the account view returned by the API; it never carries the password hash.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ContactRequest is a public contact-form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Validate validates the CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdatePasswordRequest.
func (r *UpdatePasswordRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ContactRequest.
func (r *ContactRequest) Validate() error {
	return validate.Struct(r)
}

package auth

import "github.com/appforum/forum-server/internal/types"

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents the successful JSON response after registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Token   string `json:"token"`
}

// LoginRequest represents the login request body. Identifier accepts either
// the username or the email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    types.UserSummary `json:"user"`
}

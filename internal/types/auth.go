package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the custom claims included in the access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

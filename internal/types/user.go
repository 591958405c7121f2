package types

import (
	"time"

	"github.com/google/uuid"
)

// User represents the core user entity in the domain.
type User struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`             // Unique username.
	Email             string    `json:"email"`                // Unique email address, also accepted as login identifier.
	Password          string    `json:"-"`                    // Hashed password (never exposed).
	Bio               *string   `json:"bio,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserSummary is the public author shape attached to posts and comments.
type UserSummary struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
}

// UserProfile is what the profile read path returns. No password field exists
// on this type at all.
type UserProfile struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Bio               *string   `json:"bio,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
}

// UpdateProfileParams carries the optional profile mutations.
type UpdateProfileParams struct {
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

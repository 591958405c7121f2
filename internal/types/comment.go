package types

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a post comment joined with the author's public fields. The flat
// shape (user_id/username/profile_picture_url at the top level) is the wire
// format clients consume.
type Comment struct {
	ID                uuid.UUID `json:"id"`
	PostID            uuid.UUID `json:"post_id"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"created_at"`
	UserID            uuid.UUID `json:"user_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
}

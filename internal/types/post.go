package types

import (
	"time"

	"github.com/google/uuid"
)

// Post is a forum post joined with its author's public fields.
type Post struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	ImageURL          *string   `json:"image_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	UserID            uuid.UUID `json:"user_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	LikeCount         int64     `json:"like_count"`
	FavoriteCount     int64     `json:"favorite_count"`
	CommentCount      int64     `json:"comment_count"`
}

type CreatePostParams struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

type UpdatePostParams struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

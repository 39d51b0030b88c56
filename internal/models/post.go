package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media type values stored on a post.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeNone  = "none"
)

// Post represents a feed post stored in MongoDB. LikeCount and CommentCount
// are derived counters, recomputed synchronously after each like/unlike and
// comment create/delete.
type Post struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PosterID     uint               `json:"poster_id" bson:"poster_id"`
	Title        string             `json:"title" bson:"title"`
	Content      string             `json:"content" bson:"content"`
	Media        string             `json:"media,omitempty" bson:"media,omitempty"` // stored filename
	MediaURL     string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	MediaType    string             `json:"media_type" bson:"media_type"`
	LikeCount    int                `json:"like_count" bson:"like_count"`
	CommentCount int                `json:"comment_count" bson:"comment_count"`
	Edited       bool               `json:"edited" bson:"edited"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasMedia reports whether the post carries an attached media file.
func (p *Post) HasMedia() bool {
	return p.Media != "" || p.MediaURL != ""
}

// CreatePostRequest defines the multipart form fields for creating a post.
// Content may be empty when a media file is attached; that rule is enforced
// in the handler because it depends on the upload.
type CreatePostRequest struct {
	Title   string `form:"title" validate:"required,max=80"`
	Content string `form:"content" validate:"omitempty,max=8000"`
}

// UpdatePostRequest defines the multipart form fields for editing a post.
type UpdatePostRequest struct {
	Content string `form:"content" validate:"omitempty,max=8000"`
}

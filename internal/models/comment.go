package models

import "gorm.io/gorm"

// Comment represents a comment on a post. The post's CommentCount is
// recomputed whenever a comment is created or deleted.
type Comment struct {
	gorm.Model
	PostID  string `json:"post_id" gorm:"index"` // Mongo ObjectID hex of the commented post
	UserID  uint   `json:"user_id" gorm:"index"`
	Content string `json:"content"`
}

// CreateCommentRequest defines the request body for creating a comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=8000"`
}

package models

import "gorm.io/gorm"

// PostLike records that a user liked a post. At most one live row exists
// per (post, user) pair. The auto-increment ID doubles as the cursor for
// likers pagination: IDs are strictly increasing in insertion order.
type PostLike struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index"` // Mongo ObjectID hex of the liked post
	UserID uint   `json:"user_id" gorm:"index"`
}

// LikeRow is a like row joined with the liker's username, as produced by
// the preview and likers-listing queries.
type LikeRow struct {
	ID       uint   `json:"id"`
	PostID   string `json:"post_id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// LikerPreview is one entry of a post's "who liked this" preview and of the
// likers listing: the like row ID (cursor) plus the liker's username.
type LikerPreview struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

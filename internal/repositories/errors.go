package repositories

import "errors"

// Sentinel errors surfaced by the repositories. Handlers translate these to
// HTTP statuses with errors.Is instead of matching message strings.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrLikeNotFound    = errors.New("like not found")
	ErrAlreadyLiked    = errors.New("post is already liked")
	ErrCommentNotFound = errors.New("comment not found")
)

package repositories

import (
	"errors"

	"github.com/socialhub/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.PostLike) error
	DeleteLike(postID string, userID uint) error
	HasUserLikedPost(postID string, userID uint) (bool, error)
	CountByPostID(postID string) (int64, error)
	GetLikesByUserID(userID uint) ([]models.PostLike, error)
	PreviewForPosts(postIDs []string, limit int) ([]models.LikeRow, error)
	ListByPostAfter(postID string, anchor uint, limit int) ([]models.LikeRow, error)
	DeleteByPostID(postID string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like row. The duplicate check runs first so the
// caller sees ErrAlreadyLiked instead of a driver-level constraint error.
func (r *PostgresLikeRepository) CreateLike(like *models.PostLike) error {
	exists, err := r.HasUserLikedPost(like.PostID, like.UserID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyLiked
	}
	return r.db.Create(like).Error
}

// DeleteLike removes the like row for (postID, userID), reporting
// ErrLikeNotFound when no such row exists.
func (r *PostgresLikeRepository) DeleteLike(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPostID retrieves the number of live like rows for a post. This is
// the source of truth the stored like_count is recomputed from.
func (r *PostgresLikeRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLikesByUserID retrieves all like rows created by a user. A zero userID
// retrieves every like row, mirroring the unfiltered viewer case of the
// liked-flag annotation.
func (r *PostgresLikeRepository) GetLikesByUserID(userID uint) ([]models.PostLike, error) {
	q := r.db
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var likes []models.PostLike
	if err := q.Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// PreviewForPosts retrieves up to limit like rows across the whole batch of
// posts, joined with the likers' usernames. The cap is global, not
// per-post, so posts late in the batch may come back without preview rows.
func (r *PostgresLikeRepository) PreviewForPosts(postIDs []string, limit int) ([]models.LikeRow, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var rows []models.LikeRow
	err := r.db.Model(&models.PostLike{}).
		Select("post_likes.id, post_likes.post_id, post_likes.user_id, users.username").
		Joins("JOIN users ON users.id = post_likes.user_id").
		Where("post_likes.post_id IN ?", postIDs).
		Order("post_likes.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByPostAfter retrieves up to limit like rows for a post ordered by ID
// ascending, restricted to IDs greater than anchor when anchor is nonzero.
// Callers pass pageSize+1 to detect whether more pages remain.
func (r *PostgresLikeRepository) ListByPostAfter(postID string, anchor uint, limit int) ([]models.LikeRow, error) {
	q := r.db.Model(&models.PostLike{}).
		Select("post_likes.id, post_likes.post_id, post_likes.user_id, users.username").
		Joins("JOIN users ON users.id = post_likes.user_id").
		Where("post_likes.post_id = ?", postID)
	if anchor > 0 {
		q = q.Where("post_likes.id > ?", anchor)
	}
	var rows []models.LikeRow
	if err := q.Order("post_likes.id").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByPostID removes every like row referencing a post. Used by the
// post deletion cascade.
func (r *PostgresLikeRepository) DeleteByPostID(postID string) error {
	err := r.db.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

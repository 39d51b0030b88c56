package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/middleware"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
)

// DefaultLikersPageSize is the cursor page size of the likers listing.
const DefaultLikersPageSize = 9

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	likersPageSize int
}

// NewLikeHandler creates a new LikeHandler. A non-positive likersPageSize
// falls back to DefaultLikersPageSize.
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, likersPageSize int) *LikeHandler {
	if likersPageSize <= 0 {
		likersPageSize = DefaultLikersPageSize
	}
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		likersPageSize: likersPageSize,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/posts/like/:id", h.LikePost, requireAuth)
	g.DELETE("/posts/like/:id", h.UnlikePost, requireAuth)
	g.GET("/posts/like/:postId/users", h.GetPostLikers)
}

// recountLikes recomputes the post's like count from the live like rows
// and persists it. The count is set, not incremented, so it converges to
// the row count after every like and unlike.
func (h *LikeHandler) recountLikes(c echo.Context, postID string) error {
	count, err := h.likeRepository.CountByPostID(postID)
	if err != nil {
		return err
	}
	return h.postRepository.SetLikeCount(c.Request().Context(), postID, int(count))
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID := c.Param("id")
	userID := middleware.UserID(c)

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	like := &models.PostLike{PostID: postID, UserID: userID}
	if err := h.likeRepository.CreateLike(like); err != nil {
		if errors.Is(err, repositories.ErrAlreadyLiked) {
			return echo.NewHTTPError(http.StatusConflict, "Post is already liked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.recountLikes(c, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID := c.Param("id")
	userID := middleware.UserID(c)

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.likeRepository.DeleteLike(postID, userID); err != nil {
		if errors.Is(err, repositories.ErrLikeNotFound) {
			return echo.NewHTTPError(http.StatusConflict, "Post is already not liked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.recountLikes(c, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetPostLikers lists a post's likers with cursor pagination: rows ordered
// by like ID ascending, restricted to IDs greater than the anchor. One row
// beyond the page size is fetched to detect whether more pages remain.
func (h *LikeHandler) GetPostLikers(c echo.Context) error {
	postID := c.Param("postId")

	var anchor uint
	if raw := c.QueryParam("anchor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid anchor")
		}
		anchor = uint(parsed)
	}

	rows, err := h.likeRepository.ListByPostAfter(postID, anchor, h.likersPageSize+1)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hasMorePages := len(rows) > h.likersPageSize
	if hasMorePages {
		rows = rows[:h.likersPageSize]
	}

	userLikes := make([]models.LikerPreview, 0, len(rows))
	for _, row := range rows {
		userLikes = append(userLikes, models.LikerPreview{ID: row.ID, Username: row.Username})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userLikes":    userLikes,
		"hasMorePages": hasMorePages,
		"success":      true,
	})
}

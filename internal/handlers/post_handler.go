package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/media"
	"github.com/socialhub/backend/internal/middleware"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/ratelimit"
	"github.com/socialhub/backend/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
	mediaStore        media.Store
	cooldown          ratelimit.Cooldown
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	mediaStore media.Store,
	cooldown ratelimit.Cooldown,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
		mediaStore:        mediaStore,
		cooldown:          cooldown,
	}
}

// RegisterPostRoutes registers post CRUD routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, requireAuth)
	g.GET("/posts/:id", h.GetPost, optionalAuth)
	g.PATCH("/posts/:id", h.UpdatePost, requireAuth)
	g.DELETE("/posts/:id", h.DeletePost, requireAuth)
}

// mediaUpload returns the optional multipart media file, nil when the
// request carries none.
func mediaUpload(c echo.Context) *multipart.FileHeader {
	upload, err := c.FormFile("media")
	if err != nil {
		return nil
	}
	return upload
}

// stageUpload saves the upload through the media store, translating
// rejection errors to 400s.
func (h *PostHandler) stageUpload(c echo.Context, upload *multipart.FileHeader) (*media.Staged, error) {
	staged, err := media.Stage(c.Request().Context(), h.mediaStore, upload)
	if err != nil {
		if errors.Is(err, media.ErrTooLarge) || errors.Is(err, media.ErrUnsupportedType) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return staged, nil
}

// CreatePost creates a new post from the multipart form. The uploaded
// media file, if any, is staged first and removed again on every failure
// path so validation errors never leave orphaned files behind.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := middleware.UserID(c)
	ctx := c.Request().Context()

	var staged *media.Staged
	if upload := mediaUpload(c); upload != nil {
		var err error
		if staged, err = h.stageUpload(c, upload); err != nil {
			return err
		}
	}
	defer staged.Cleanup(ctx)

	req := models.CreatePostRequest{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Content == "" && staged == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Title and either content or media are required")
	}

	barred, err := h.cooldown.Has(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if barred {
		return echo.NewHTTPError(http.StatusTooManyRequests, "You are posting too frequently. Please try again shortly.")
	}
	if err := h.cooldown.Add(ctx, userID); err != nil {
		// The cooldown is a soft anti-spam measure, not a correctness
		// guarantee; a failing backend must not block the post.
		log.Printf("cooldown add failed for user %d: %v", userID, err)
	}

	post := &models.Post{
		PosterID:  userID,
		Title:     req.Title,
		Content:   req.Content,
		MediaType: models.MediaTypeNone,
	}
	if f := staged.File(); f != nil {
		post.Media = f.Filename
		post.MediaURL = f.URL
		post.MediaType = f.MediaType
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	staged.Commit()
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost edits a post's content and optionally replaces its media.
// Only the original poster or an admin may edit; the edited flag is set
// on every successful update.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := middleware.UserID(c)
	isAdmin := middleware.IsAdmin(c)
	postID := c.Param("id")
	ctx := c.Request().Context()

	var staged *media.Staged
	if upload := mediaUpload(c); upload != nil {
		var err error
		if staged, err = h.stageUpload(c, upload); err != nil {
			return err
		}
	}
	defer staged.Cleanup(ctx)

	req := models.UpdatePostRequest{Content: c.FormValue("content")}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.PosterID != userID && !isAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update post")
	}

	if f := staged.File(); f != nil {
		// Replace the previous media file. Removal is best-effort; a
		// failure here must not block the update.
		if post.Media != "" {
			if err := h.mediaStore.Remove(ctx, post.Media); err != nil {
				log.Printf("failed to remove replaced media %s: %v", post.Media, err)
			}
		}
		post.Media = f.Filename
		post.MediaURL = f.URL
		post.MediaType = f.MediaType
	}

	post.Content = req.Content
	post.Edited = true

	if err := h.postRepository.UpdatePost(ctx, postID, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	staged.Commit()
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post along with its media file and every like and
// comment row referencing it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := middleware.UserID(c)
	isAdmin := middleware.IsAdmin(c)
	postID := c.Param("id")
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.PosterID != userID && !isAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete post")
	}

	if post.Media != "" {
		if err := h.mediaStore.Remove(ctx, post.Media); err != nil {
			log.Printf("failed to remove media %s of deleted post %s: %v", post.Media, postID, err)
		}
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likeRepository.DeleteByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.commentRepository.DeleteByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

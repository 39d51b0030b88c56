package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/middleware"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/pagination"
	"github.com/socialhub/backend/internal/repositories"
)

// FeedPageSize is the fixed page size of the post listings.
const FeedPageSize = 10

// DefaultLikePreviewLimit caps how many like rows one listing fetches for
// the "who liked this" previews. The cap is global across the page, not
// per post, so posts late in the page may receive no preview even when
// liked. Documented limitation, kept from the original behavior.
const DefaultLikePreviewLimit = 200

// FeedHandler assembles the post listings: filter, sort, paginate, then
// enrich each page with per-viewer like state and liker previews.
type FeedHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	likeRepository   repositories.LikeRepository
	likePreviewLimit int
}

// NewFeedHandler creates a new FeedHandler. A non-positive preview limit
// falls back to DefaultLikePreviewLimit.
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	likePreviewLimit int,
) *FeedHandler {
	if likePreviewLimit <= 0 {
		likePreviewLimit = DefaultLikePreviewLimit
	}
	return &FeedHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		likeRepository:   likeRepo,
		likePreviewLimit: likePreviewLimit,
	}
}

// RegisterFeedRoutes registers the listing routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, optionalAuth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts, optionalAuth)
	g.GET("/posts/liked/:id", h.GetUserLikedPosts, optionalAuth)
}

// FeedPost is a post enriched with poster identity and per-viewer like
// state for the listing responses.
type FeedPost struct {
	models.Post
	Poster          models.UserCompact    `json:"poster"`
	Liked           bool                  `json:"liked"`
	UserLikePreview []models.LikerPreview `json:"user_like_preview,omitempty"`
}

// attachPosters projects posts into FeedPosts with their poster identity
// resolved in one batch.
func (h *FeedHandler) attachPosters(posts []models.Post) ([]FeedPost, error) {
	idSet := make(map[uint]bool, len(posts))
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		if !idSet[p.PosterID] {
			idSet[p.PosterID] = true
			ids = append(ids, p.PosterID)
		}
	}

	users, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}
	userMap := make(map[uint]models.UserCompact, len(users))
	for _, u := range users {
		userMap[u.ID] = u.ToCompact()
	}

	feed := make([]FeedPost, len(posts))
	for i, p := range posts {
		feed[i] = FeedPost{Post: p, Poster: userMap[p.PosterID]}
	}
	return feed, nil
}

// setLiked marks each post the viewer has liked. A zero viewerID marks
// posts liked by anyone, mirroring the unfiltered legacy behavior.
func (h *FeedHandler) setLiked(posts []FeedPost, viewerID uint) error {
	likes, err := h.likeRepository.GetLikesByUserID(viewerID)
	if err != nil {
		return err
	}
	liked := make(map[string]bool, len(likes))
	for _, l := range likes {
		liked[l.PostID] = true
	}
	for i := range posts {
		if liked[posts[i].ID.Hex()] {
			posts[i].Liked = true
		}
	}
	return nil
}

// attachLikePreviews groups up to likePreviewLimit like rows, joined with
// liker usernames, onto the posts of the page.
func (h *FeedHandler) attachLikePreviews(posts []FeedPost) error {
	if len(posts) == 0 {
		return nil
	}
	index := make(map[string]int, len(posts))
	ids := make([]string, len(posts))
	for i := range posts {
		hex := posts[i].ID.Hex()
		index[hex] = i
		ids[i] = hex
	}

	rows, err := h.likeRepository.PreviewForPosts(ids, h.likePreviewLimit)
	if err != nil {
		return err
	}
	for _, row := range rows {
		i, ok := index[row.PostID]
		if !ok {
			continue
		}
		posts[i].UserLikePreview = append(posts[i].UserLikePreview, models.LikerPreview{
			ID:       row.ID,
			Username: row.Username,
		})
	}
	return nil
}

// sortFeed orders the feed by the whitelisted sort key. Unknown keys fall
// back to newest first. The sort is stable so equal keys keep the
// repository's newest-first order as tie-break.
func sortFeed(feed []FeedPost, sortBy string) {
	var less func(a, b FeedPost) bool
	switch sortBy {
	case "createdAt":
		less = func(a, b FeedPost) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "likeCount":
		less = func(a, b FeedPost) bool { return a.LikeCount < b.LikeCount }
	case "-likeCount":
		less = func(a, b FeedPost) bool { return a.LikeCount > b.LikeCount }
	default: // "-createdAt"
		less = func(a, b FeedPost) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(feed, func(i, j int) bool { return less(feed[i], feed[j]) })
}

func pageParam(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// GetPosts lists posts: the full collection with poster identity, filtered
// by exact author username and case-insensitive title substring, sorted,
// counted before pagination, and sliced to the requested page. Filtering
// runs in memory after full retrieval, a deliberately bounded strategy for
// the target data scale.
func (h *FeedHandler) GetPosts(c echo.Context) error {
	viewerID := middleware.UserID(c)
	page := pageParam(c)
	sortBy := c.QueryParam("sortBy")
	author := c.QueryParam("author")
	search := c.QueryParam("search")

	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	feed, err := h.attachPosters(posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if author != "" {
		filtered := feed[:0]
		for _, p := range feed {
			if p.Poster.Username == author {
				filtered = append(filtered, p)
			}
		}
		feed = filtered
	}
	if search != "" {
		needle := strings.ToLower(search)
		filtered := feed[:0]
		for _, p := range feed {
			if strings.Contains(strings.ToLower(p.Title), needle) {
				filtered = append(filtered, p)
			}
		}
		feed = filtered
	}

	sortFeed(feed, sortBy)
	count := len(feed)
	pagePosts := pagination.Paginate(feed, FeedPageSize, page)

	if viewerID != 0 {
		if err := h.setLiked(pagePosts, viewerID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if err := h.attachLikePreviews(pagePosts); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"data": pagePosts, "count": count})
}

// GetUserLikedPosts lists the posts a user has liked: their like rows
// sorted and paginated, re-projected to the underlying posts, then
// enriched like the main listing. The reported count is the page length,
// matching the legacy contract.
func (h *FeedHandler) GetUserLikedPosts(c echo.Context) error {
	likerID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	likerID := uint(likerID64)
	viewerID := middleware.UserID(c)
	page := pageParam(c)
	sortBy := c.QueryParam("sortBy")

	likes, err := h.likeRepository.GetLikesByUserID(likerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if sortBy == "createdAt" {
		sort.SliceStable(likes, func(i, j int) bool { return likes[i].CreatedAt.Before(likes[j].CreatedAt) })
	} else {
		sort.SliceStable(likes, func(i, j int) bool { return likes[i].CreatedAt.After(likes[j].CreatedAt) })
	}

	pageLikes := pagination.Paginate(likes, FeedPageSize, page)

	postIDs := make([]string, len(pageLikes))
	for i, l := range pageLikes {
		postIDs[i] = l.PostID
	}
	postMap, err := h.postRepository.GetPostsByIDs(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ordered := make([]models.Post, 0, len(pageLikes))
	for _, l := range pageLikes {
		if post, ok := postMap[l.PostID]; ok {
			ordered = append(ordered, post)
		}
	}

	feed, err := h.attachPosters(ordered)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if viewerID != 0 {
		if err := h.setLiked(feed, viewerID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if err := h.attachLikePreviews(feed); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"data": feed, "count": len(feed)})
}

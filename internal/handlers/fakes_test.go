package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/media"
	"github.com/socialhub/backend/internal/middleware"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
	"github.com/socialhub/backend/validators"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- post repository fake ---

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

// seed inserts a post directly, bypassing CreatePost's timestamping.
func (r *fakePostRepo) seed(posterID uint, title string, createdAt time.Time, likeCount int) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		PosterID:  posterID,
		Title:     title,
		MediaType: models.MediaTypeNone,
		LikeCount: likeCount,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	r.posts[post.ID.Hex()] = post
	return post
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.MediaType == "" {
		post.MediaType = models.MediaTypeNone
	}
	stored := *post
	r.posts[post.ID.Hex()] = &stored
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	cp := *post
	return &cp, nil
}

func (r *fakePostRepo) GetAllPosts(context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r *fakePostRepo) GetPostsByIDs(_ context.Context, ids []string) (map[string]models.Post, error) {
	result := make(map[string]models.Post, len(ids))
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			result[id] = *p
		}
	}
	return result, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	stored, ok := r.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	updated := *post
	updated.ID = stored.ID
	updated.UpdatedAt = time.Now()
	r.posts[id] = &updated
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) SetLikeCount(_ context.Context, postID string, count int) error {
	post, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.LikeCount = count
	return nil
}

func (r *fakePostRepo) SetCommentCount(_ context.Context, postID string, count int) error {
	post, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.CommentCount = count
	return nil
}

// --- like repository fake ---

type likeEntry struct {
	id        uint
	postID    string
	userID    uint
	createdAt time.Time
}

type fakeLikeRepo struct {
	likes  []likeEntry
	nextID uint
	// usernames resolves the join the SQL queries perform.
	usernames map[uint]string
}

func newFakeLikeRepo(usernames map[uint]string) *fakeLikeRepo {
	if usernames == nil {
		usernames = make(map[uint]string)
	}
	return &fakeLikeRepo{nextID: 1, usernames: usernames}
}

func (r *fakeLikeRepo) seed(postID string, userID uint, createdAt time.Time) uint {
	id := r.nextID
	r.nextID++
	r.likes = append(r.likes, likeEntry{id: id, postID: postID, userID: userID, createdAt: createdAt})
	return id
}

func (r *fakeLikeRepo) CreateLike(like *models.PostLike) error {
	exists, _ := r.HasUserLikedPost(like.PostID, like.UserID)
	if exists {
		return repositories.ErrAlreadyLiked
	}
	like.ID = r.seed(like.PostID, like.UserID, time.Now())
	return nil
}

func (r *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	for i, l := range r.likes {
		if l.postID == postID && l.userID == userID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return nil
		}
	}
	return repositories.ErrLikeNotFound
}

func (r *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	for _, l := range r.likes {
		if l.postID == postID && l.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLikeRepo) CountByPostID(postID string) (int64, error) {
	var count int64
	for _, l := range r.likes {
		if l.postID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) GetLikesByUserID(userID uint) ([]models.PostLike, error) {
	var likes []models.PostLike
	for _, l := range r.likes {
		if userID != 0 && l.userID != userID {
			continue
		}
		like := models.PostLike{PostID: l.postID, UserID: l.userID}
		like.ID = l.id
		like.CreatedAt = l.createdAt
		likes = append(likes, like)
	}
	return likes, nil
}

func (r *fakeLikeRepo) sortedByID() []likeEntry {
	entries := append([]likeEntry(nil), r.likes...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}

func (r *fakeLikeRepo) PreviewForPosts(postIDs []string, limit int) ([]models.LikeRow, error) {
	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	var rows []models.LikeRow
	for _, l := range r.sortedByID() {
		if !wanted[l.postID] {
			continue
		}
		if len(rows) == limit {
			break
		}
		rows = append(rows, models.LikeRow{ID: l.id, PostID: l.postID, UserID: l.userID, Username: r.usernames[l.userID]})
	}
	return rows, nil
}

func (r *fakeLikeRepo) ListByPostAfter(postID string, anchor uint, limit int) ([]models.LikeRow, error) {
	var rows []models.LikeRow
	for _, l := range r.sortedByID() {
		if l.postID != postID || l.id <= anchor {
			continue
		}
		if len(rows) == limit {
			break
		}
		rows = append(rows, models.LikeRow{ID: l.id, PostID: l.postID, UserID: l.userID, Username: r.usernames[l.userID]})
	}
	return rows, nil
}

func (r *fakeLikeRepo) DeleteByPostID(postID string) error {
	kept := r.likes[:0]
	for _, l := range r.likes {
		if l.postID != postID {
			kept = append(kept, l)
		}
	}
	r.likes = kept
	return nil
}

// --- user repository fake ---

type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(usernames map[uint]string) *fakeUserRepo {
	users := make(map[uint]models.User, len(usernames))
	for id, name := range usernames {
		users[id] = models.User{ID: id, Username: name}
	}
	return &fakeUserRepo{users: users}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// --- comment repository fake ---

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*models.Comment), nextID: 1}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrCommentNotFound
	}
	cp := *comment
	return &cp, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (r *fakeCommentRepo) CountByPostID(postID string) (int64, error) {
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPostID(postID string) error {
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

// --- media store fake ---

type fakeMediaStore struct {
	saveErr error
	seq     int
	saved   []string
	removed []string
}

func (s *fakeMediaStore) Save(context.Context, *multipart.FileHeader) (*media.File, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.seq++
	name := fmt.Sprintf("media-%d.png", s.seq)
	s.saved = append(s.saved, name)
	return &media.File{Filename: name, URL: "/uploads/" + name, MediaType: models.MediaTypeImage}, nil
}

func (s *fakeMediaStore) Remove(_ context.Context, filename string) error {
	s.removed = append(s.removed, filename)
	return nil
}

// --- cooldown fake ---

type fakeCooldown struct {
	barred map[uint]bool
	added  []uint
}

func newFakeCooldown() *fakeCooldown {
	return &fakeCooldown{barred: make(map[uint]bool)}
}

func (c *fakeCooldown) Add(_ context.Context, userID uint) error {
	c.added = append(c.added, userID)
	return nil
}

func (c *fakeCooldown) Has(_ context.Context, userID uint) (bool, error) {
	return c.barred[userID], nil
}

// --- request helpers ---

// newContext builds an Echo context for a direct handler call.
func newContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser marks the context as authenticated, the way the auth middleware
// would.
func asUser(c echo.Context, userID uint, isAdmin bool) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextIsAdmin, isAdmin)
}

// multipartForm encodes form fields plus an optional file part.
func multipartForm(t *testing.T, fields map[string]string, fileField, filename string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

// httpError unwraps the echo.HTTPError a handler returned.
func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he
}

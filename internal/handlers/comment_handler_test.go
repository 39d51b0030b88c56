package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentHandler() (*CommentHandler, *fakePostRepo, *fakeCommentRepo) {
	postRepo := newFakePostRepo()
	commentRepo := newFakeCommentRepo()
	return NewCommentHandler(commentRepo, postRepo), postRepo, commentRepo
}

func TestCreateComment(t *testing.T) {
	h, postRepo, _ := newCommentHandler()
	post := postRepo.seed(1, "Hello", time.Now(), 0)

	body := strings.NewReader(`{"content":"nice post"}`)
	c, rec := newContext(http.MethodPost, "/api/posts/"+post.ID.Hex()+"/comments", body, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	asUser(c, 5, false)

	require.NoError(t, h.CreateComment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
	assert.Equal(t, uint(5), comment.UserID)
	assert.Equal(t, "nice post", comment.Content)

	stored, err := postRepo.GetPostByID(c.Request().Context(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount, "comment count recomputed after create")
}

func TestCreateCommentEmptyContent(t *testing.T) {
	h, postRepo, commentRepo := newCommentHandler()
	post := postRepo.seed(1, "Hello", time.Now(), 0)

	body := strings.NewReader(`{"content":""}`)
	c, _ := newContext(http.MethodPost, "/api/posts/"+post.ID.Hex()+"/comments", body, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	asUser(c, 5, false)

	he := httpError(t, h.CreateComment(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Empty(t, commentRepo.comments)
}

func TestCreateCommentMissingPost(t *testing.T) {
	h, _, _ := newCommentHandler()

	body := strings.NewReader(`{"content":"hello?"}`)
	c, _ := newContext(http.MethodPost, "/api/posts/missing/comments", body, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	asUser(c, 5, false)

	he := httpError(t, h.CreateComment(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetCommentsOldestFirst(t *testing.T) {
	h, postRepo, commentRepo := newCommentHandler()
	post := postRepo.seed(1, "Hello", time.Now(), 0)
	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, commentRepo.CreateComment(&models.Comment{PostID: post.ID.Hex(), UserID: 5, Content: text}))
	}

	c, rec := newContext(http.MethodGet, "/api/posts/"+post.ID.Hex()+"/comments", nil, "")
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	require.NoError(t, h.GetComments(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
}

func TestDeleteComment(t *testing.T) {
	h, postRepo, commentRepo := newCommentHandler()
	post := postRepo.seed(1, "Hello", time.Now(), 1)
	comment := &models.Comment{PostID: post.ID.Hex(), UserID: 5, Content: "mine"}
	require.NoError(t, commentRepo.CreateComment(comment))

	c, rec := newContext(http.MethodDelete, "/api/comments/"+strconv.Itoa(int(comment.ID)), nil, "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(comment.ID)))
	asUser(c, 5, false)

	require.NoError(t, h.DeleteComment(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := postRepo.GetPostByID(c.Request().Context(), post.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, stored.CommentCount, "comment count recomputed after delete")
}

func TestDeleteCommentForbidden(t *testing.T) {
	h, postRepo, commentRepo := newCommentHandler()
	post := postRepo.seed(1, "Hello", time.Now(), 0)
	comment := &models.Comment{PostID: post.ID.Hex(), UserID: 5, Content: "mine"}
	require.NoError(t, commentRepo.CreateComment(comment))

	c, _ := newContext(http.MethodDelete, "/api/comments/"+strconv.Itoa(int(comment.ID)), nil, "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(comment.ID)))
	asUser(c, 6, false)

	he := httpError(t, h.DeleteComment(c))
	assert.Equal(t, http.StatusForbidden, he.Code)

	_, err := commentRepo.GetCommentByID(comment.ID)
	assert.NoError(t, err, "comment must survive a forbidden delete")
}

func TestDeleteCommentAdminOverride(t *testing.T) {
	h, postRepo, commentRepo := newCommentHandler()
	post := postRepo.seed(1, "Hello", time.Now(), 0)
	comment := &models.Comment{PostID: post.ID.Hex(), UserID: 5, Content: "reported"}
	require.NoError(t, commentRepo.CreateComment(comment))

	c, rec := newContext(http.MethodDelete, "/api/comments/"+strconv.Itoa(int(comment.ID)), nil, "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(comment.ID)))
	asUser(c, 99, true)

	require.NoError(t, h.DeleteComment(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteCommentNotFound(t *testing.T) {
	h, _, _ := newCommentHandler()

	c, _ := newContext(http.MethodDelete, "/api/comments/42", nil, "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	asUser(c, 5, false)

	he := httpError(t, h.DeleteComment(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

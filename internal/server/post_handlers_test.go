package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeHandler(t *testing.T) {
	srv, db := newTestServer(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := &models.Post{AuthorID: alice.ID, Content: "hello"}
	require.NoError(t, db.Create(post).Error)

	app := appAs(srv, bob.ID)
	app.Post("/posts/:id/like", srv.ToggleLike)

	path := "/posts/" + strconv.Itoa(int(post.ID)) + "/like"

	req := httptest.NewRequest(http.MethodPost, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Active bool  `json:"active"`
		Count  int64 `json:"count"`
	}
	decodeBody(t, resp, &result)
	assert.True(t, result.Active)
	assert.EqualValues(t, 1, result.Count)

	// Second toggle removes the like.
	req = httptest.NewRequest(http.MethodPost, path, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	decodeBody(t, resp, &result)
	assert.False(t, result.Active)
	assert.EqualValues(t, 0, result.Count)
}

func TestToggleLikeHandler_InvalidID(t *testing.T) {
	srv, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	app := appAs(srv, alice.ID)
	app.Post("/posts/:id/like", srv.ToggleLike)

	req := httptest.NewRequest(http.MethodPost, "/posts/abc/like", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatePostHandler(t *testing.T) {
	srv, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	app := appAs(srv, alice.ID)
	app.Post("/posts", srv.CreatePost)

	req := httptest.NewRequest(http.MethodPost, "/posts",
		strings.NewReader(`{"content":"first post #intro"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	assert.Equal(t, alice.ID, post.AuthorID)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "intro", post.Tags[0].Name)
}

func TestCreatePostHandler_EmptyContent(t *testing.T) {
	srv, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	app := appAs(srv, alice.ID)
	app.Post("/posts", srv.CreatePost)

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"content":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeletePostHandler_ForbiddenForOthers(t *testing.T) {
	srv, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := &models.Post{AuthorID: alice.ID, Content: "hello"}
	require.NoError(t, db.Create(post).Error)

	app := appAs(srv, bob.ID)
	app.Delete("/posts/:id", srv.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, "/posts/"+strconv.Itoa(int(post.ID)), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

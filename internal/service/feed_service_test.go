package service

import (
	"context"
	"testing"
	"time"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_HomeIncludesFollowedAndOwnPosts(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	follow(t, db, alice.ID, bob.ID)

	own := createPost(t, db, alice.ID, "mine")
	followed := createPost(t, db, bob.ID, "from bob")
	createPost(t, db, carol.ID, "stranger")

	posts, err := svc.Home(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	ids := []uint{posts[0].ID, posts[1].ID}
	assert.Contains(t, ids, own.ID)
	assert.Contains(t, ids, followed.ID)
}

func TestFeedService_HomeNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	old := createPost(t, db, alice.ID, "old")
	recent := createPost(t, db, alice.ID, "recent")
	require.NoError(t, db.Model(old).Update("created_at", base).Error)
	require.NoError(t, db.Model(recent).Update("created_at", base.Add(time.Hour)).Error)

	posts, err := svc.Home(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, recent.ID, posts[0].ID)
	assert.Equal(t, old.ID, posts[1].ID)
}

func TestFeedService_HomeAnnotatesLiked(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	liked := createPost(t, db, alice.ID, "liked one")
	createPost(t, db, alice.ID, "other one")
	require.NoError(t, db.Create(&models.Like{UserID: alice.ID, PostID: liked.ID}).Error)

	posts, err := svc.Home(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	for _, p := range posts {
		assert.Equal(t, p.ID == liked.ID, p.Liked)
	}
}

func TestFeedService_TrendingRespectsWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	alice := createUser(t, db, "alice")

	hot := createPost(t, db, alice.ID, "hot")
	mild := createPost(t, db, alice.ID, "mild")
	stale := createPost(t, db, alice.ID, "stale")
	require.NoError(t, db.Model(hot).Updates(map[string]any{"created_at": now.Add(-time.Hour), "likes_count": 5}).Error)
	require.NoError(t, db.Model(mild).Updates(map[string]any{"created_at": now.Add(-2 * time.Hour), "likes_count": 1}).Error)
	require.NoError(t, db.Model(stale).Updates(map[string]any{"created_at": now.Add(-10 * 24 * time.Hour), "likes_count": 50}).Error)

	posts, err := svc.Trending(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, hot.ID, posts[0].ID)
	assert.Equal(t, mild.ID, posts[1].ID)
}

func TestFeedService_ByTag(t *testing.T) {
	db := newTestDB(t)
	feedSvc := NewFeedService(db)
	postSvc := NewPostService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")

	tagged, err := postSvc.CreatePost(ctx, alice.ID, "learning #golang today")
	require.NoError(t, err)
	_, err = postSvc.CreatePost(ctx, alice.ID, "no tags here")
	require.NoError(t, err)

	tag, posts, err := feedSvc.ByTag(ctx, alice.ID, "golang", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "golang", tag.Name)
	require.Len(t, posts, 1)
	assert.Equal(t, tagged.ID, posts[0].ID)
}

func TestFeedService_ByTagNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)

	_, _, err := svc.ByTag(context.Background(), 0, "missing", 20, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

package repository

import (
	"context"
	"testing"
	"time"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRepository_RecomputePostLikes(t *testing.T) {
	db := newTestDB(t)
	counters := NewCounterRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "hello", time.Time{})

	// Counter starts stale on purpose; recompute must fix it from the rows.
	require.NoError(t, db.Model(post).Update("likes_count", 99).Error)
	require.NoError(t, db.Create(&models.Like{UserID: alice.ID, PostID: post.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: bob.ID, PostID: post.ID}).Error)

	require.NoError(t, counters.RecomputePostLikes(ctx, post.ID))

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 2, got.LikesCount)
}

func TestCounterRepository_RecomputePostCommentsIgnoresDeleted(t *testing.T) {
	db := newTestDB(t)
	counters := NewCounterRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "hello", time.Time{})

	c1 := &models.Comment{Content: "keep", UserID: alice.ID, PostID: post.ID}
	c2 := &models.Comment{Content: "gone", UserID: alice.ID, PostID: post.ID}
	require.NoError(t, db.Create(c1).Error)
	require.NoError(t, db.Create(c2).Error)
	require.NoError(t, db.Delete(c2).Error)

	require.NoError(t, counters.RecomputePostComments(ctx, post.ID))

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.CommentsCount)
}

func TestCounterRepository_RecomputeFollowCounts(t *testing.T) {
	db := newTestDB(t)
	counters := NewCounterRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, db.Create(&models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: carol.ID, FollowingID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)

	require.NoError(t, counters.RecomputeFollowerCount(ctx, alice.ID))
	require.NoError(t, counters.RecomputeFollowingCount(ctx, alice.ID))

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&profile).Error)
	assert.Equal(t, 2, profile.FollowersCount)
	assert.Equal(t, 1, profile.FollowingCount)
}

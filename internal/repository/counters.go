package repository

import (
	"context"

	"gorm.io/gorm"
)

// CounterRepository recomputes derived counters from their source tables.
// Counters are never incremented in place: after any mutation the owning
// transaction re-counts, so a counter can drift from truth only until the
// next write touches it.
type CounterRepository interface {
	RecomputePostLikes(ctx context.Context, postID uint) error
	RecomputePostComments(ctx context.Context, postID uint) error
	RecomputeFollowerCount(ctx context.Context, userID uint) error
	RecomputeFollowingCount(ctx context.Context, userID uint) error
	RecomputeTagUsage(ctx context.Context, tagID uint) error
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) RecomputePostLikes(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE posts SET likes_count = (
			SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id
		) WHERE id = ?`, postID,
	).Error
}

func (r *counterRepository) RecomputePostComments(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE posts SET comments_count = (
			SELECT COUNT(*) FROM comments
			WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL
		) WHERE id = ?`, postID,
	).Error
}

func (r *counterRepository) RecomputeFollowerCount(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE profiles SET followers_count = (
			SELECT COUNT(*) FROM follows WHERE follows.following_id = profiles.user_id
		) WHERE user_id = ?`, userID,
	).Error
}

func (r *counterRepository) RecomputeFollowingCount(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE profiles SET following_count = (
			SELECT COUNT(*) FROM follows WHERE follows.follower_id = profiles.user_id
		) WHERE user_id = ?`, userID,
	).Error
}

func (r *counterRepository) RecomputeTagUsage(ctx context.Context, tagID uint) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tags SET usage_count = (
			SELECT COUNT(*) FROM post_tags
			JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL
			WHERE post_tags.tag_id = tags.id
		) WHERE id = ?`, tagID,
	).Error
}

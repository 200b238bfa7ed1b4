package service

import (
	"context"
	"errors"
	"time"

	"pulse/internal/models"
	"pulse/internal/repository"

	"gorm.io/gorm"
)

// FeedService assembles the home, trending and tag feeds. Feeds are read
// paths only: they never mutate relationship state or counters.
type FeedService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewFeedService creates a new feed service
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db, now: time.Now}
}

// Home returns posts by the users the viewer follows plus the viewer's own
// posts, newest first.
func (s *FeedService) Home(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	followRepo := repository.NewFollowRepository(s.db)
	authorIDs, err := followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs = append(authorIDs, viewerID)

	posts, err := repository.NewPostRepository(s.db).ListFeed(ctx, authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.annotateLiked(ctx, viewerID, posts)
}

// Trending returns the posts of the last 7 days ordered by like count.
func (s *FeedService) Trending(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := repository.NewPostRepository(s.db).ListTrending(ctx, s.now(), limit, offset)
	if err != nil {
		return nil, err
	}
	return s.annotateLiked(ctx, viewerID, posts)
}

// ByTag returns the posts carrying the tag, newest first.
func (s *FeedService) ByTag(ctx context.Context, viewerID uint, slug string, limit, offset int) (*models.Tag, []*models.Post, error) {
	tag, err := repository.NewTagRepository(s.db).GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Tag not found")
		}
		return nil, nil, err
	}

	posts, err := repository.NewPostRepository(s.db).ListByTag(ctx, slug, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	posts, err = s.annotateLiked(ctx, viewerID, posts)
	return tag, posts, err
}

// PopularTags returns the most used tags.
func (s *FeedService) PopularTags(ctx context.Context, limit int) ([]*models.Tag, error) {
	return repository.NewTagRepository(s.db).ListPopular(ctx, limit)
}

// annotateLiked sets the viewer-specific Liked flag on each post in one query.
func (s *FeedService) annotateLiked(ctx context.Context, viewerID uint, posts []*models.Post) ([]*models.Post, error) {
	if viewerID == 0 || len(posts) == 0 {
		return posts, nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	liked, err := repository.NewLikeRepository(s.db).LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	likedSet := make(map[uint]struct{}, len(liked))
	for _, id := range liked {
		likedSet[id] = struct{}{}
	}
	for _, p := range posts {
		_, p.Liked = likedSet[p.ID]
	}
	return posts, nil
}

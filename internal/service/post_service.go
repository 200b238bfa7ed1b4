package service

import (
	"context"
	"errors"
	"strings"

	"pulse/internal/models"
	"pulse/internal/repository"

	"gorm.io/gorm"
)

const maxPostLen = 2200

// PostService handles post creation, deletion and tagging.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a new post service
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// ParseTags extracts hashtags from post content: tokens starting with '#',
// lowercased, '#' stripped, deduplicated in order of first appearance.
func ParseTags(content string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(content) {
		if !strings.HasPrefix(token, "#") {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(token, "#"))
		name = strings.TrimFunc(name, func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '_' || r == '-')
		})
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// CreatePost persists the post, resolves its hashtags to tag rows and
// recounts tag usage, all in one transaction.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 2200 characters)")
	}

	post := &models.Post{AuthorID: authorID, Content: content}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postRepo := repository.NewPostRepository(tx)
		tagRepo := repository.NewTagRepository(tx)
		counters := repository.NewCounterRepository(tx)

		if err := postRepo.Create(ctx, post); err != nil {
			return err
		}

		names := ParseTags(content)
		if len(names) == 0 {
			return nil
		}
		tags, err := tagRepo.FindOrCreate(ctx, names)
		if err != nil {
			return err
		}
		if err := postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return err
		}
		for _, tag := range tags {
			if err := counters.RecomputeTagUsage(ctx, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return repository.NewPostRepository(s.db).GetByID(ctx, post.ID)
}

// GetPost returns a post with author and tags preloaded.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := repository.NewPostRepository(s.db).GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post not found")
		}
		return nil, err
	}
	return post, nil
}

// ListUserPosts returns a user's posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return repository.NewPostRepository(s.db).GetByUserID(ctx, userID, limit, offset)
}

// DeletePost removes the author's own post along with the notifications that
// pointed at it, then recounts the usage of its tags.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postRepo := repository.NewPostRepository(tx)
		counters := repository.NewCounterRepository(tx)

		post, err := postRepo.GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post not found")
			}
			return err
		}
		if post.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own posts")
		}

		if err := postRepo.Delete(ctx, postID); err != nil {
			return err
		}
		if err := repository.NewNotificationRepository(tx).DeleteForPost(ctx, postID); err != nil {
			return err
		}
		for _, tag := range post.Tags {
			if err := counters.RecomputeTagUsage(ctx, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

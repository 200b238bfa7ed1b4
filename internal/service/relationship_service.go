package service

import (
	"context"
	"errors"
	"strings"

	"pulse/internal/cache"
	"pulse/internal/middleware"
	"pulse/internal/models"
	"pulse/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 500

// RelationshipService owns the like/follow/comment mutations. Every mutation
// runs in a single transaction that also recounts the derived counters and
// writes the notification row, so either all of it lands or none of it does.
type RelationshipService struct {
	db       *gorm.DB
	notifier EventPublisher
}

// EventPublisher is the outbound hook fired after a notification row commits.
// Publishing is best-effort and happens outside the transaction.
type EventPublisher interface {
	PublishNotification(ctx context.Context, n *models.Notification)
}

// ToggleResult reports the state after a toggle and the recounted total.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// NewRelationshipService creates a new relationship service
func NewRelationshipService(db *gorm.DB, notifier EventPublisher) *RelationshipService {
	return &RelationshipService{db: db, notifier: notifier}
}

// ToggleLike likes the post if the user has not liked it, otherwise removes
// the like. The like row, the recount of the post's like counter and the
// notification (on create, when the actor is not the author) commit together.
func (s *RelationshipService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleResult, error) {
	var result ToggleResult
	var pending *models.Notification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postRepo := repository.NewPostRepository(tx)
		likeRepo := repository.NewLikeRepository(tx)
		counters := repository.NewCounterRepository(tx)

		post, err := postRepo.GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post not found")
			}
			return err
		}

		created, err := likeRepo.Insert(ctx, userID, postID)
		if err != nil {
			return err
		}

		if created {
			result.Active = true
			// Only the creation of a like notifies, and never the author
			// liking their own post.
			if post.AuthorID != userID {
				pending = &models.Notification{
					UserID:  post.AuthorID,
					Kind:    models.NotificationLike,
					PostID:  &post.ID,
					ActorID: &userID,
				}
				if err := repository.NewNotificationRepository(tx).Create(ctx, pending); err != nil {
					return err
				}
			}
		} else {
			if err := likeRepo.Delete(ctx, userID, postID); err != nil {
				return err
			}
			result.Active = false
		}

		if err := counters.RecomputePostLikes(ctx, postID); err != nil {
			return err
		}

		var fresh models.Post
		if err := tx.Select("likes_count").First(&fresh, postID).Error; err != nil {
			return err
		}
		result.Count = int64(fresh.LikesCount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return &result, nil
}

// ToggleFollow follows the target if not followed, otherwise unfollows.
// Both sides' profile counters are recounted in the same transaction.
// Following yourself is rejected outright.
func (s *RelationshipService) ToggleFollow(ctx context.Context, followerID, followingID uint) (*ToggleResult, error) {
	if followerID == followingID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	var result ToggleResult
	var pending *models.Notification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		followRepo := repository.NewFollowRepository(tx)
		counters := repository.NewCounterRepository(tx)

		var target models.User
		if err := tx.First(&target, followingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User not found")
			}
			return err
		}

		created, err := followRepo.Insert(ctx, followerID, followingID)
		if err != nil {
			return err
		}

		if created {
			result.Active = true
			pending = &models.Notification{
				UserID:  followingID,
				Kind:    models.NotificationFollow,
				ActorID: &followerID,
			}
			if err := repository.NewNotificationRepository(tx).Create(ctx, pending); err != nil {
				return err
			}
		} else {
			if err := followRepo.Delete(ctx, followerID, followingID); err != nil {
				return err
			}
			result.Active = false
		}

		if err := counters.RecomputeFollowerCount(ctx, followingID); err != nil {
			return err
		}
		if err := counters.RecomputeFollowingCount(ctx, followerID); err != nil {
			return err
		}

		var profile models.Profile
		if err := tx.Select("followers_count").Where("user_id = ?", followingID).First(&profile).Error; err != nil {
			return err
		}
		result.Count = int64(profile.FollowersCount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cached user lookups embed the profile, so both sides' recounted
	// counters must be dropped from the cache along with the commit.
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followingID)

	s.publish(ctx, pending)
	return &result, nil
}

// AddComment creates a comment, recounts the post's comment counter and
// notifies the post author, all atomically.
func (s *RelationshipService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	comment := &models.Comment{Content: content, UserID: userID, PostID: postID}
	var pending *models.Notification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postRepo := repository.NewPostRepository(tx)
		commentRepo := repository.NewCommentRepository(tx)
		counters := repository.NewCounterRepository(tx)

		post, err := postRepo.GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post not found")
			}
			return err
		}

		if err := commentRepo.Create(ctx, comment); err != nil {
			return err
		}
		if err := counters.RecomputePostComments(ctx, postID); err != nil {
			return err
		}

		if post.AuthorID != userID {
			pending = &models.Notification{
				UserID:    post.AuthorID,
				Kind:      models.NotificationComment,
				PostID:    &post.ID,
				CommentID: &comment.ID,
				ActorID:   &userID,
			}
			if err := repository.NewNotificationRepository(tx).Create(ctx, pending); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return repository.NewCommentRepository(s.db).GetByID(ctx, comment.ID)
}

// ListComments returns a post's comments, oldest first.
func (s *RelationshipService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := repository.NewPostRepository(s.db).GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post not found")
		}
		return nil, err
	}
	return repository.NewCommentRepository(s.db).ListByPost(ctx, postID, limit, offset)
}

// UpdateComment edits a comment's content. Only the comment author may edit.
// Editing creates no notification.
func (s *RelationshipService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	commentRepo := repository.NewCommentRepository(s.db)
	comment, err := commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment not found")
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = content
	if err := commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return commentRepo.GetByID(ctx, commentID)
}

// DeleteComment removes a comment and recounts the post's comment counter.
// The comment author and the post author may both delete; deletion never
// produces a notification, and notifications pointing at the comment are
// removed with it.
func (s *RelationshipService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentRepo := repository.NewCommentRepository(tx)
		counters := repository.NewCounterRepository(tx)

		comment, err := commentRepo.GetByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment not found")
			}
			return err
		}

		if comment.UserID != userID {
			post, err := repository.NewPostRepository(tx).GetByID(ctx, comment.PostID)
			if err != nil {
				return err
			}
			if post.AuthorID != userID {
				return models.NewForbiddenError("You can only delete your own comments")
			}
		}

		if err := commentRepo.Delete(ctx, commentID); err != nil {
			return err
		}
		if err := repository.NewNotificationRepository(tx).DeleteForComment(ctx, commentID); err != nil {
			return err
		}
		return counters.RecomputePostComments(ctx, comment.PostID)
	})
}

// IsLiked reports whether the user currently likes the post.
func (s *RelationshipService) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return repository.NewLikeRepository(s.db).Exists(ctx, userID, postID)
}

// IsFollowing reports whether follower currently follows following.
func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return repository.NewFollowRepository(s.db).Exists(ctx, followerID, followingID)
}

func (s *RelationshipService) publish(ctx context.Context, n *models.Notification) {
	if n == nil || s.notifier == nil {
		return
	}
	middleware.NotificationsCreated.WithLabelValues(string(n.Kind)).Inc()
	s.notifier.PublishNotification(ctx, n)
}

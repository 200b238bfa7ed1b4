package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pulse/internal/middleware"
	"pulse/internal/models"
	"pulse/internal/repository"

	"gorm.io/gorm"
)

const maxMessageLen = 1000

// MessageService is the direct-messaging gateway. Two users may exchange
// messages when a follow edge exists between them in either direction;
// users may always message themselves (notes-to-self).
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// canMessage checks the eligibility rule shared by send and read paths.
func (s *MessageService) canMessage(ctx context.Context, userID, otherID uint) (bool, error) {
	if userID == otherID {
		return true, nil
	}
	return repository.NewFollowRepository(s.db).IsConnected(ctx, userID, otherID)
}

// Send delivers a message from sender to receiver after the eligibility
// check. Empty content is rejected before eligibility is consulted so the
// caller gets the most actionable error.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 1000 characters)")
	}

	if _, err := repository.NewUserRepository(s.db).GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User not found")
		}
		return nil, err
	}

	ok, err := s.canMessage(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewForbiddenError("You can only message users you are connected with")
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := repository.NewMessageRepository(s.db).Create(ctx, msg); err != nil {
		return nil, err
	}
	middleware.MessagesSent.Inc()
	return msg, nil
}

// Conversation returns the messages between the viewer and the other user.
// With sinceID zero it returns the most recent history (capped); with a
// non-zero sinceID it returns only messages newer than that id, which is the
// incremental polling path. Either way, reading marks the other side's
// messages as read.
func (s *MessageService) Conversation(ctx context.Context, viewerID, otherID, sinceID uint) ([]*models.Message, error) {
	ok, err := s.canMessage(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewForbiddenError("You can only message users you are connected with")
	}

	msgRepo := repository.NewMessageRepository(s.db)

	var messages []*models.Message
	if sinceID > 0 {
		messages, err = msgRepo.ListBetweenSince(ctx, viewerID, otherID, sinceID)
	} else {
		messages, err = msgRepo.ListBetween(ctx, viewerID, otherID)
	}
	if err != nil {
		return nil, err
	}

	// Reading the conversation acknowledges it.
	if viewerID != otherID {
		if err := msgRepo.MarkReadFrom(ctx, otherID, viewerID); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// Conversations lists every chat partner with the last message exchanged and
// the number of their messages the viewer has not read, ordered by recency.
func (s *MessageService) Conversations(ctx context.Context, viewerID uint) ([]*models.ConversationSummary, error) {
	msgRepo := repository.NewMessageRepository(s.db)
	userRepo := repository.NewUserRepository(s.db)

	partnerIDs, err := msgRepo.PartnerIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.ConversationSummary, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		partner, err := userRepo.GetByID(ctx, partnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		last, err := msgRepo.LastBetween(ctx, viewerID, partnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		unread, err := msgRepo.CountUnreadFrom(ctx, partnerID, viewerID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, &models.ConversationSummary{
			User:        *partner,
			LastMessage: last,
			UnreadCount: unread,
		})
	}

	// Most recently active conversation first.
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessage, summaries[j].LastMessage
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return summaries, nil
}

// UnreadTotal returns how many messages addressed to the viewer are unread
// across all conversations.
func (s *MessageService) UnreadTotal(ctx context.Context, viewerID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", viewerID, false).
		Count(&count).Error
	return count, err
}

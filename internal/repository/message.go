package repository

import (
	"context"

	"pulse/internal/models"

	"gorm.io/gorm"
)

// messageHistoryCap bounds the initial message fetch for a conversation.
const messageHistoryCap = 50

// MessageRepository defines the interface for direct message data operations
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListBetween(ctx context.Context, a, b uint) ([]*models.Message, error)
	ListBetweenSince(ctx context.Context, a, b, sinceID uint) ([]*models.Message, error)
	MarkReadFrom(ctx context.Context, senderID, receiverID uint) error
	CountUnreadFrom(ctx context.Context, senderID, receiverID uint) (int64, error)
	LastBetween(ctx context.Context, a, b uint) (*models.Message, error)
	PartnerIDs(ctx context.Context, userID uint) ([]uint, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func pairScope(a, b uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			a, b, b, a,
		)
	}
}

// ListBetween returns the most recent messages of the pair in chronological
// order. Fetch newest-first with a cap, then reverse, so the cap trims old
// history rather than recent messages.
func (r *messageRepository) ListBetween(ctx context.Context, a, b uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Scopes(pairScope(a, b)).
		Order("created_at DESC, id DESC").
		Limit(messageHistoryCap).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListBetweenSince returns messages of the pair with id greater than sinceID,
// oldest first. Ids are assigned monotonically, so id order is arrival order
// and incremental polling never skips or repeats a message.
func (r *messageRepository) ListBetweenSince(ctx context.Context, a, b, sinceID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Scopes(pairScope(a, b)).
		Where("id > ?", sinceID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkReadFrom marks every unread message sent by senderID to receiverID as read.
func (r *messageRepository) MarkReadFrom(ctx context.Context, senderID, receiverID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true).Error
}

func (r *messageRepository) CountUnreadFrom(ctx context.Context, senderID, receiverID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Count(&count).Error
	return count, err
}

func (r *messageRepository) LastBetween(ctx context.Context, a, b uint) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).
		Scopes(pairScope(a, b)).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// PartnerIDs returns the distinct set of users this user has exchanged
// messages with, in no particular order.
func (r *messageRepository) PartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var sent []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ?", userID).
		Distinct().
		Pluck("receiver_id", &sent).Error; err != nil {
		return nil, err
	}

	var received []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ?", userID).
		Distinct().
		Pluck("sender_id", &received).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(sent)+len(received))
	partners := make([]uint, 0, len(sent)+len(received))
	for _, id := range append(sent, received...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		partners = append(partners, id)
	}
	return partners, nil
}

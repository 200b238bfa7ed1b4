package service

import (
	"context"

	"pulse/internal/models"
	"pulse/internal/notifications"
	"pulse/internal/repository"

	"gorm.io/gorm"
)

// NotificationService reads and manages a user's notification inbox, and
// bridges committed notification rows to the Redis event channel.
type NotificationService struct {
	db       *gorm.DB
	notifier *notifications.Notifier
}

// NotificationPage is the inbox view: the newest notifications plus the
// unread total across the whole inbox, counted before any state change.
type NotificationPage struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, notifier *notifications.Notifier) *NotificationService {
	return &NotificationService{db: db, notifier: notifier}
}

// List returns the newest 50 notifications and the unread count. The unread
// count covers the entire inbox, not only the listed page.
func (s *NotificationService) List(ctx context.Context, userID uint) (*NotificationPage, error) {
	repo := repository.NewNotificationRepository(s.db)

	items, err := repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Notifications: items, UnreadCount: unread}, nil
}

// UnreadCount returns how many notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return repository.NewNotificationRepository(s.db).CountUnread(ctx, userID)
}

// MarkAllRead marks every unread notification as read and returns how many
// were unread just before the call.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return repository.NewNotificationRepository(s.db).MarkAllRead(ctx, userID)
}

// PublishNotification pushes a committed notification row to the recipient's
// Redis channel. Failures are swallowed: delivery is advisory, the row in
// the database is the source of truth.
func (s *NotificationService) PublishNotification(ctx context.Context, n *models.Notification) {
	if s.notifier == nil {
		return
	}
	ev := notifications.Event{
		Kind:      string(n.Kind),
		UserID:    n.UserID,
		CreatedAt: n.CreatedAt,
	}
	if n.ActorID != nil {
		ev.ActorID = *n.ActorID
	}
	if n.PostID != nil {
		ev.PostID = *n.PostID
	}
	_ = s.notifier.PublishEvent(ctx, ev)
}

package repository

import (
	"context"
	"testing"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListForUserCapsAtFifty(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	var lastID uint
	for i := 0; i < 55; i++ {
		n := &models.Notification{
			UserID:  alice.ID,
			Kind:    models.NotificationFollow,
			ActorID: &bob.ID,
		}
		require.NoError(t, db.Create(n).Error)
		lastID = n.ID
	}

	notifications, err := repo.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 50)
	// Newest first: the cap drops the 5 oldest, never the newest.
	assert.Equal(t, lastID, notifications[0].ID)
}

func TestNotificationRepository_MarkAllReadReturnsPriorUnread(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID:  alice.ID,
			Kind:    models.NotificationLike,
			ActorID: &bob.ID,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Notification{
		UserID:  alice.ID,
		Kind:    models.NotificationLike,
		ActorID: &bob.ID,
		IsRead:  true,
	}).Error)

	unread, err := repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	flipped, err := repo.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, flipped)

	unread, err = repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)

	// Second call finds nothing left to flip.
	flipped, err = repo.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, flipped)
}

func TestNotificationRepository_MarkAllReadScopedToUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, db.Create(&models.Notification{
		UserID: alice.ID, Kind: models.NotificationFollow, ActorID: &bob.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		UserID: bob.ID, Kind: models.NotificationFollow, ActorID: &alice.ID,
	}).Error)

	_, err := repo.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)

	unread, err := repo.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread, "bob's notifications must be untouched")
}

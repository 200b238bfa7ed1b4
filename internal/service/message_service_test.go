package service

import (
	"context"
	"testing"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func follow(t *testing.T, db *gorm.DB, followerID, followingID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error)
}

func TestMessageService_SendRequiresConnection(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	// No follow edge in either direction: denied.
	_, err := svc.Send(ctx, alice.ID, bob.ID, "hi")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// One edge in either direction unlocks both sides.
	follow(t, db, bob.ID, alice.ID)

	msg, err := svc.Send(ctx, alice.ID, bob.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)

	_, err = svc.Send(ctx, bob.ID, alice.ID, "hello back")
	require.NoError(t, err)
}

func TestMessageService_SendToSelfAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	alice := createUser(t, db, "alice")

	msg, err := svc.Send(context.Background(), alice.ID, alice.ID, "note to self")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, msg.SenderID)
	assert.Equal(t, alice.ID, msg.ReceiverID)
}

func TestMessageService_SendEmptyRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	alice := createUser(t, db, "alice")

	_, err := svc.Send(context.Background(), alice.ID, alice.ID, "  \n ")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestMessageService_ConversationMarksRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	follow(t, db, alice.ID, bob.ID)

	_, err := svc.Send(ctx, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice.ID, bob.ID, "two")
	require.NoError(t, err)

	unread, err := svc.UnreadTotal(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	messages, err := svc.Conversation(ctx, bob.ID, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "two", messages[1].Content)

	// Reading acknowledged alice's messages.
	unread, err = svc.UnreadTotal(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)

	// Alice's own unread state is untouched.
	_, err = svc.Send(ctx, bob.ID, alice.ID, "three")
	require.NoError(t, err)
	unread, err = svc.UnreadTotal(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestMessageService_ConversationSincePolling(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	follow(t, db, alice.ID, bob.ID)

	m1, err := svc.Send(ctx, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	m2, err := svc.Send(ctx, alice.ID, bob.ID, "two")
	require.NoError(t, err)
	m3, err := svc.Send(ctx, bob.ID, alice.ID, "three")
	require.NoError(t, err)

	// Poll after m1: only the two newer messages come back, in order.
	messages, err := svc.Conversation(ctx, bob.ID, alice.ID, m1.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, m2.ID, messages[0].ID)
	assert.Equal(t, m3.ID, messages[1].ID)

	// Poll at the tip yields nothing.
	messages, err = svc.Conversation(ctx, bob.ID, alice.ID, m3.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMessageService_ConversationDeniedWithoutConnection(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Conversation(context.Background(), alice.ID, bob.ID, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestMessageService_Conversations(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	follow(t, db, alice.ID, bob.ID)
	follow(t, db, carol.ID, alice.ID)

	_, err := svc.Send(ctx, alice.ID, bob.ID, "to bob")
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol.ID, alice.ID, "from carol 1")
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol.ID, alice.ID, "from carol 2")
	require.NoError(t, err)

	summaries, err := svc.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Carol's conversation is the most recently active.
	assert.Equal(t, carol.ID, summaries[0].User.ID)
	assert.Equal(t, "from carol 2", summaries[0].LastMessage.Content)
	assert.EqualValues(t, 2, summaries[0].UnreadCount)

	assert.Equal(t, bob.ID, summaries[1].User.ID)
	assert.EqualValues(t, 0, summaries[1].UnreadCount)
}

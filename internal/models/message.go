package models

import "time"

// Message is a direct message between two users. Messages within a
// conversation are ordered by creation time with id as tie-break; ids are
// monotonically assigned so id order matches arrival order, which is what
// makes incremental since-id polling sound.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_msg_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_msg_pair" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null;size:1000" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// ConversationSummary annotates a chat counterpart with the most recent
// message exchanged and how many of their messages are still unread.
type ConversationSummary struct {
	User        User     `json:"user"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int64    `json:"unread_count"`
}

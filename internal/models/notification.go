package models

import "time"

// NotificationKind classifies what event produced a notification.
type NotificationKind string

const (
	// NotificationLike is created when someone likes the recipient's post.
	NotificationLike NotificationKind = "like"
	// NotificationComment is created when someone comments on the recipient's post.
	NotificationComment NotificationKind = "comment"
	// NotificationFollow is created when someone follows the recipient.
	NotificationFollow NotificationKind = "follow"
)

// Notification is a record of a qualifying event addressed to a user.
// Notifications are only created for actions taken by someone other than the
// recipient, and only on creation of the underlying relation (never on
// un-like / un-follow).
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Kind      NotificationKind `gorm:"type:varchar(20);not null" json:"kind"`
	PostID    *uint            `json:"post_id,omitempty"`
	CommentID *uint            `json:"comment_id,omitempty"`
	ActorID   *uint            `json:"actor_id,omitempty"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Post    *Post    `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Comment *Comment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	Actor   *User    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Pulse application.
// LikesCount and CommentsCount are derived counters kept in sync with the
// likes and comments tables by recomputation inside the same transaction as
// any mutation of those tables.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content  string `gorm:"type:text;not null;size:2200" json:"content"`

	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`

	Tags []Tag `gorm:"many2many:post_tags;" json:"tags,omitempty"`

	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"-" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

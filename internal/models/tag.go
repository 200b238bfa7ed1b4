package models

import "strings"

// Tag is a hashtag attached to posts. Names are stored lower-cased and
// unique; UsageCount is derived from the post_tags join rows.
type Tag struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;unique;not null" json:"name"`
	Slug       string `gorm:"size:100;unique;not null" json:"slug"`
	UsageCount int    `gorm:"not null;default:0" json:"usage_count"`
}

// PostTag is the explicit join row linking a post to a tag.
type PostTag struct {
	PostID uint `gorm:"primaryKey" json:"post_id"`
	TagID  uint `gorm:"primaryKey" json:"tag_id"`
}

// Slugify produces a URL-safe slug for a tag name: lower-cased, spaces
// collapsed to hyphens. Tag names are single hashtag tokens so this is
// rarely more than a lowercase pass.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(s, " ", "-")
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Feed event kinds carried over the activity pipeline.
const (
	FeedWatchLogged      = "watch_logged"
	FeedWatchShared      = "watch_shared"
	FeedMemberJoined     = "member_joined"
	FeedGroupTransferred = "group_transferred"
	FeedGroupDeleted     = "group_deleted"
)

// FeedItem 群组动态条目
// Written by the feed consumer (or directly when Kafka is unavailable) and
// cascade-deleted with the group it belongs to.
type FeedItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GroupID uint   `gorm:"index" json:"group_id"` // 0 = personal feed entry
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Kind    string `gorm:"not null" json:"kind"`
	Payload string `json:"payload"` // JSON blob, shape depends on Kind

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FeedItem) TableName() string {
	return "feed_items"
}

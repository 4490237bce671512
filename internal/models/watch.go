package models

import (
	"time"

	"gorm.io/gorm"
)

// Watch 观影记录
type Watch struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    uint      `gorm:"not null;index" json:"user_id"`
	MovieID   uint      `gorm:"not null;index" json:"movie_id"`
	WatchedOn time.Time `json:"watched_on"`
	Rating    *float64  `json:"rating"` // 0-10, nil = unrated
	Review    string    `json:"review"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Movie *Movie `gorm:"foreignKey:MovieID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Watch) TableName() string {
	return "watches"
}

// WatchGroup 观影记录与群组的共享关系
// Rows cascade away with either side: deleting a group or a watch removes
// the link, the other side stays.
type WatchGroup struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	WatchID uint `gorm:"not null;uniqueIndex:idx_watch_group" json:"watch_id"`
	GroupID uint `gorm:"not null;uniqueIndex:idx_watch_group" json:"group_id"`

	Watch *Watch `gorm:"foreignKey:WatchID" json:"-"`
	Group *Group `gorm:"foreignKey:GroupID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (WatchGroup) TableName() string {
	return "watch_groups"
}

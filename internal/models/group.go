package models

import (
	"time"

	"gorm.io/gorm"
)

// Group 群组模型
// CreatedByID is the single owner. A group always has at least one member
// (the creator) until it is deleted.
type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedByID uint   `gorm:"not null;index" json:"created_by_id"`
	InviteCode  string `gorm:"uniqueIndex;not null" json:"invite_code"`

	CreatedBy *User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Members   []GroupMember `gorm:"foreignKey:GroupID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership roles. Exactly one member per group holds RoleCreator.
const (
	RoleMember  = "member"
	RoleAdmin   = "admin"
	RoleCreator = "creator"
)

// GroupMember 群组成员模型
type GroupMember struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	GroupID uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	Role    string `gorm:"default:member" json:"role"` // member, admin, creator

	JoinedAt  time.Time      `json:"joined_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

package models

import (
	"time"
)

// User 用户模型
// Accounts are never removed physically: IsDeactivated is a reversible pause,
// IsDeleted is permanent. Watches and group history keep pointing at the row.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Nickname     string `json:"nickname"`
	AvatarURL    string `json:"avatar_url"`

	IsPremium     bool `gorm:"default:false" json:"is_premium"`
	IsDeactivated bool `gorm:"default:false" json:"is_deactivated"`
	IsDeleted     bool `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Active reports whether the account can appear in listings and receive
// group ownership.
func (u *User) Active() bool {
	return !u.IsDeleted && !u.IsDeactivated
}

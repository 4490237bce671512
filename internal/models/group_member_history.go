package models

import "time"

// Membership audit actions.
const (
	HistoryJoined      = "joined"
	HistoryLeft        = "left"
	HistoryKicked      = "kicked"
	HistoryPromoted    = "promoted"
	HistoryDemoted     = "demoted"
	HistoryTransferred = "ownership_transferred"
	HistoryDeleted     = "group_deleted"
)

// GroupMemberHistory 群组成员变更审计日志
// Append-only: rows are inserted and never updated or deleted, so the log
// survives the group and the accounts it mentions.
type GroupMemberHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GroupID   uint   `gorm:"not null;index" json:"group_id"`
	ActorID   uint   `gorm:"not null" json:"actor_id"`   // who performed the change
	SubjectID uint   `gorm:"not null" json:"subject_id"` // whose membership changed
	Action    string `gorm:"not null" json:"action"`
	Detail    string `json:"detail"`

	CreatedAt time.Time `json:"created_at"`
}

func (GroupMemberHistory) TableName() string {
	return "group_member_histories"
}

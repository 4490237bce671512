package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
)

// GroupRepository 群组仓储
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建群组仓储实例
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// WithTx 返回一个绑定到事务的仓储副本
func (r *GroupRepository) WithTx(tx *gorm.DB) *GroupRepository {
	return &GroupRepository{db: tx}
}

// Transaction 在单个数据库事务中执行 fn
func (r *GroupRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// CreateWithCreator 创建群组并将创建者添加为 creator 成员
// Group, creator membership and the audit row commit together, keeping the
// invariant that a group always has exactly one creator member.
func (r *GroupRepository) CreateWithCreator(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := models.GroupMember{
			GroupID:  group.ID,
			UserID:   group.CreatedByID,
			Role:     models.RoleCreator,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		history := models.GroupMemberHistory{
			GroupID:   group.ID,
			ActorID:   group.CreatedByID,
			SubjectID: group.CreatedByID,
			Action:    models.HistoryJoined,
			Detail:    "group created",
		}
		return tx.Create(&history).Error
	})
}

// GetByID 根据ID获取群组
func (r *GroupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("CreatedBy").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByInviteCode 根据邀请码获取群组
func (r *GroupRepository) GetByInviteCode(code string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("invite_code = ?", code).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Update 更新群组
func (r *GroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// ListCreatedBy 获取用户创建的所有群组
func (r *GroupRepository) ListCreatedBy(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Where("created_by_id = ?", userID).Find(&groups).Error
	return groups, err
}

// ListByMember 获取用户所在的所有群组（分页）
func (r *GroupRepository) ListByMember(userID uint, limit, offset int) ([]models.Group, int64, error) {
	var groups []models.Group
	var total int64

	query := r.db.Model(&models.Group{}).
		Joins("JOIN group_members ON groups.id = group_members.group_id").
		Where("group_members.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("CreatedBy").Limit(limit).Offset(offset).Find(&groups).Error
	return groups, total, err
}

// GetMember 获取群组成员记录
func (r *GroupRepository) GetMember(groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers 获取群组成员（含用户信息）
func (r *GroupRepository) ListMembers(groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.Where("group_id = ?", groupID).Preload("User").Find(&members).Error
	return members, err
}

// CountMembers 统计群组成员数
func (r *GroupRepository) CountMembers(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

// AddMember 向群组添加成员
func (r *GroupRepository) AddMember(member *models.GroupMember) error {
	return r.db.Create(member).Error
}

// RemoveMember 移除群组成员
// Hard delete: the unique (group, user) index must free up so the user can
// rejoin later. GroupMemberHistory carries the audit trail.
func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.db.Unscoped().
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

// UpdateMemberRole 更新成员角色
func (r *GroupRepository) UpdateMemberRole(groupID, userID uint, role string) error {
	return r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role).Error
}

// UpdateOwner 更新群组所有者
func (r *GroupRepository) UpdateOwner(groupID, newOwnerID uint) error {
	return r.db.Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("created_by_id", newOwnerID).Error
}

// AppendHistory 追加一条成员变更审计记录
func (r *GroupRepository) AppendHistory(history *models.GroupMemberHistory) error {
	return r.db.Create(history).Error
}

// ListHistory 获取群组的审计记录（按时间倒序，分页）
func (r *GroupRepository) ListHistory(groupID uint, limit, offset int) ([]models.GroupMemberHistory, error) {
	var entries []models.GroupMemberHistory
	err := r.db.Where("group_id = ?", groupID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// DeleteCascade 删除群组及其成员、共享链接和动态数据
// Memberships and share links go away for real; the group row itself is
// soft-deleted so audit entries keep a resolvable reference.
func (r *GroupRepository) DeleteCascade(groupID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("group_id = ?", groupID).Delete(&models.WatchGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.FeedItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}

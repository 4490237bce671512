package repositories

import (
	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
)

// FeedRepository 动态仓储
type FeedRepository struct {
	db *gorm.DB
}

// NewFeedRepository 创建动态仓储实例
func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// Create 创建动态条目
func (r *FeedRepository) Create(item *models.FeedItem) error {
	return r.db.Create(item).Error
}

// ListByUser 获取用户的个人动态（按时间倒序，分页）
func (r *FeedRepository) ListByUser(userID uint, limit, offset int) ([]models.FeedItem, error) {
	var items []models.FeedItem
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// ListByGroup 获取群组动态（按时间倒序，分页）
func (r *FeedRepository) ListByGroup(groupID uint, limit, offset int) ([]models.FeedItem, error) {
	var items []models.FeedItem
	err := r.db.Where("group_id = ?", groupID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

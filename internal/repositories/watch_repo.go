package repositories

import (
	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
)

// WatchRepository 观影记录仓储
type WatchRepository struct {
	db *gorm.DB
}

// NewWatchRepository 创建观影记录仓储实例
func NewWatchRepository(db *gorm.DB) *WatchRepository {
	return &WatchRepository{db: db}
}

// WithTx 返回一个绑定到事务的仓储副本
func (r *WatchRepository) WithTx(tx *gorm.DB) *WatchRepository {
	return &WatchRepository{db: tx}
}

// Create 创建观影记录
func (r *WatchRepository) Create(watch *models.Watch) error {
	return r.db.Create(watch).Error
}

// GetByID 根据ID获取观影记录
func (r *WatchRepository) GetByID(id uint) (*models.Watch, error) {
	var watch models.Watch
	if err := r.db.Preload("Movie").First(&watch, id).Error; err != nil {
		return nil, err
	}
	return &watch, nil
}

// Update 更新观影记录
func (r *WatchRepository) Update(watch *models.Watch) error {
	return r.db.Save(watch).Error
}

// Delete 删除观影记录并移除群组共享链接
func (r *WatchRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("watch_id = ?", id).Delete(&models.WatchGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Watch{}, id).Error
	})
}

// ListByUser 获取用户的观影记录（按观看时间倒序，分页）
func (r *WatchRepository) ListByUser(userID uint, limit, offset int) ([]models.Watch, int64, error) {
	var watches []models.Watch
	var total int64

	query := r.db.Model(&models.Watch{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", userID).
		Order("watched_on desc").
		Limit(limit).
		Offset(offset).
		Preload("Movie").
		Find(&watches).Error
	return watches, total, err
}

// Share 将观影记录共享到群组
func (r *WatchRepository) Share(watchID, groupID uint) error {
	link := models.WatchGroup{
		WatchID: watchID,
		GroupID: groupID,
	}
	return r.db.Create(&link).Error
}

// Unshare 取消观影记录的群组共享
func (r *WatchRepository) Unshare(watchID, groupID uint) error {
	return r.db.Where("watch_id = ? AND group_id = ?", watchID, groupID).
		Delete(&models.WatchGroup{}).Error
}

// IsShared 检查观影记录是否已共享到群组
func (r *WatchRepository) IsShared(watchID, groupID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WatchGroup{}).
		Where("watch_id = ? AND group_id = ?", watchID, groupID).
		Count(&count).Error
	return count > 0, err
}

// ListByGroup 获取共享到群组的观影记录
// Watches of deleted accounts stay (history is preserved), the visibility
// scope only drops rows whose watch itself was removed.
func (r *WatchRepository) ListByGroup(groupID uint, limit, offset int) ([]models.Watch, int64, error) {
	var watches []models.Watch
	var total int64

	query := r.db.Model(&models.Watch{}).
		Joins("JOIN watch_groups ON watch_groups.watch_id = watches.id").
		Where("watch_groups.group_id = ?", groupID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("watches.watched_on desc").
		Limit(limit).
		Offset(offset).
		Preload("Movie").
		Preload("User").
		Find(&watches).Error
	return watches, total, err
}

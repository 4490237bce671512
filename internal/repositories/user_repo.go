package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
)

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回一个绑定到事务的仓储副本
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create 创建用户
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据ID获取用户（排除已删除账号）
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(models.ExistingUsers).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户（排除已删除账号）
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(models.ExistingUsers).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户（排除已删除账号）
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(models.ExistingUsers).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername 检查用户名是否已被未删除账号占用
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Scopes(models.ExistingUsers).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail 检查邮箱是否已被未删除账号占用
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Scopes(models.ExistingUsers).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update 更新用户
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// SetDeactivated 设置账号停用标记
func (r *UserRepository) SetDeactivated(id uint, deactivated bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("is_deactivated", deactivated).Error
}

// MarkDeleted 永久删除账号：置删除标记并清除身份字段
// The row survives so watches and group history keep a valid reference, but
// username and email are scrubbed to tombstone values so a new registration
// with the same email gets a fresh id.
func (r *UserRepository) MarkDeleted(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"is_deleted":     true,
		"is_deactivated": false,
		"is_premium":     false,
		"username":       fmt.Sprintf("deleted-%d", id),
		"email":          fmt.Sprintf("deleted-%d@invalid.local", id),
		"nickname":       "",
		"avatar_url":     "",
	}).Error
}

// List 获取活跃用户列表
func (r *UserRepository) List(limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	err := r.db.Model(&models.User{}).Scopes(models.ActiveUsers).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.Scopes(models.ActiveUsers).Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

package repositories

import (
	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
)

// MovieRepository 电影仓储
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository 创建电影仓储实例
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create 创建电影条目
func (r *MovieRepository) Create(movie *models.Movie) error {
	return r.db.Create(movie).Error
}

// GetByID 根据ID获取电影
func (r *MovieRepository) GetByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// Update 更新电影
func (r *MovieRepository) Update(movie *models.Movie) error {
	return r.db.Save(movie).Error
}

// Delete 删除电影（软删除）
func (r *MovieRepository) Delete(id uint) error {
	return r.db.Delete(&models.Movie{}, id).Error
}

// List 获取电影列表
func (r *MovieRepository) List(limit, offset int) ([]models.Movie, int64, error) {
	var movies []models.Movie
	var total int64

	err := r.db.Model(&models.Movie{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.Order("title").Limit(limit).Offset(offset).Find(&movies).Error
	return movies, total, err
}

// Search 按标题或题材搜索电影
func (r *MovieRepository) Search(title, genre string, limit, offset int) ([]models.Movie, int64, error) {
	query := r.db.Model(&models.Movie{})
	if title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%")
	}
	if genre != "" {
		query = query.Where("genres LIKE ?", "%"+genre+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []models.Movie
	err := query.Order("title").Limit(limit).Offset(offset).Find(&movies).Error
	return movies, total, err
}

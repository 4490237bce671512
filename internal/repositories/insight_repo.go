package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
)

// InsightRepository 统计洞察仓储
// Read-only aggregation queries feeding the insight endpoints.
type InsightRepository struct {
	db *gorm.DB
}

// NewInsightRepository 创建统计仓储实例
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// MovieCount 电影观看次数统计行
type MovieCount struct {
	MovieID uint   `json:"movie_id"`
	Title   string `json:"title"`
	Count   int64  `json:"count"`
}

// MostWatched 统计用户重看最多的电影
func (r *InsightRepository) MostWatched(userID uint, limit int) ([]MovieCount, error) {
	var rows []MovieCount
	err := r.db.Model(&models.Watch{}).
		Select("watches.movie_id AS movie_id, movies.title AS title, COUNT(*) AS count").
		Joins("JOIN movies ON movies.id = watches.movie_id").
		Where("watches.user_id = ?", userID).
		Group("watches.movie_id, movies.title").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// MemberCount 群组成员共享次数统计行
type MemberCount struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// GroupLeaderboard 统计群组内共享观影最多的成员
// The visibility predicate applies: deleted and deactivated accounts never
// appear on a leaderboard.
func (r *InsightRepository) GroupLeaderboard(groupID uint, limit int) ([]MemberCount, error) {
	var rows []MemberCount
	err := r.db.Model(&models.Watch{}).
		Select("watches.user_id AS user_id, users.username AS username, COUNT(*) AS count").
		Joins("JOIN watch_groups ON watch_groups.watch_id = watches.id").
		Joins("JOIN users ON users.id = watches.user_id").
		Scopes(models.ActiveUsers).
		Where("watch_groups.group_id = ?", groupID).
		Group("watches.user_id, users.username").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// UserWatchDates 获取用户全部观看日期（升序）
func (r *InsightRepository) UserWatchDates(userID uint) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.Model(&models.Watch{}).
		Where("user_id = ?", userID).
		Order("watched_on").
		Pluck("watched_on", &dates).Error
	return dates, err
}

// UserGenreStrings 获取用户看过的电影题材串
func (r *InsightRepository) UserGenreStrings(userID uint) ([]string, error) {
	var genres []string
	err := r.db.Model(&models.Watch{}).
		Joins("JOIN movies ON movies.id = watches.movie_id").
		Where("watches.user_id = ?", userID).
		Pluck("movies.genres", &genres).Error
	return genres, err
}

// RatingSummary 评分汇总
type RatingSummary struct {
	Average float64 `json:"average"`
	Rated   int64   `json:"rated"`
}

// UserRatingSummary 统计用户的平均评分和已评分数量
func (r *InsightRepository) UserRatingSummary(userID uint) (*RatingSummary, error) {
	var summary RatingSummary
	err := r.db.Model(&models.Watch{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(rating) AS rated").
		Where("user_id = ? AND rating IS NOT NULL", userID).
		Scan(&summary).Error
	return &summary, err
}

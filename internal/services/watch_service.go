package services

import (
	"errors"
	"time"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/utils"
)

// WatchService 观影记录服务
type WatchService struct {
	watchRepo *repositories.WatchRepository
	movieRepo *repositories.MovieRepository
	groupRepo *repositories.GroupRepository
	feed      *FeedPublisher
}

// NewWatchService 创建观影记录服务实例
func NewWatchService(
	watchRepo *repositories.WatchRepository,
	movieRepo *repositories.MovieRepository,
	groupRepo *repositories.GroupRepository,
	feed *FeedPublisher,
) *WatchService {
	return &WatchService{
		watchRepo: watchRepo,
		movieRepo: movieRepo,
		groupRepo: groupRepo,
		feed:      feed,
	}
}

// LogWatchRequest 记录观影请求
type LogWatchRequest struct {
	MovieID   uint     `json:"movie_id" binding:"required"`
	WatchedOn string   `json:"watched_on"` // YYYY-MM-DD, defaults to today
	Rating    *float64 `json:"rating"`
	Review    string   `json:"review"`
}

// WatchDTO 观影记录数据传输对象
type WatchDTO struct {
	ID         uint     `json:"id"`
	UserID     uint     `json:"user_id"`
	MovieID    uint     `json:"movie_id"`
	MovieTitle string   `json:"movie_title"`
	WatchedOn  string   `json:"watched_on"`
	Rating     *float64 `json:"rating"`
	Review     string   `json:"review"`
}

func toWatchDTO(watch *models.Watch) *WatchDTO {
	dto := &WatchDTO{
		ID:        watch.ID,
		UserID:    watch.UserID,
		MovieID:   watch.MovieID,
		WatchedOn: watch.WatchedOn.Format("2006-01-02"),
		Rating:    watch.Rating,
		Review:    watch.Review,
	}
	if watch.Movie != nil {
		dto.MovieTitle = watch.Movie.Title
	}
	return dto
}

// LogWatch 记录一次观影
func (s *WatchService) LogWatch(userID uint, req *LogWatchRequest) (*WatchDTO, error) {
	movie, err := s.movieRepo.GetByID(req.MovieID)
	if err != nil {
		return nil, ErrMovieNotFound
	}

	watchedOn := time.Now()
	if req.WatchedOn != "" {
		watchedOn, err = time.Parse("2006-01-02", req.WatchedOn)
		if err != nil {
			return nil, errors.New("watched_on must be YYYY-MM-DD")
		}
	}
	if req.Rating != nil && !utils.ValidateRating(*req.Rating) {
		return nil, errors.New("rating must be between 0 and 10")
	}

	watch := &models.Watch{
		UserID:    userID,
		MovieID:   req.MovieID,
		WatchedOn: watchedOn,
		Rating:    req.Rating,
		Review:    req.Review,
		Movie:     movie,
	}
	if err := s.watchRepo.Create(watch); err != nil {
		return nil, err
	}

	s.feed.Publish(models.FeedWatchLogged, 0, userID, map[string]any{"movie_title": movie.Title})

	return toWatchDTO(watch), nil
}

// ListMine 获取用户的观影记录
func (s *WatchService) ListMine(userID uint, limit, offset int) ([]WatchDTO, int64, error) {
	watches, total, err := s.watchRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]WatchDTO, 0, len(watches))
	for i := range watches {
		dtos = append(dtos, *toWatchDTO(&watches[i]))
	}
	return dtos, total, nil
}

// UpdateWatchRequest 更新观影记录请求
type UpdateWatchRequest struct {
	Rating *float64 `json:"rating"`
	Review *string  `json:"review"`
}

// UpdateWatch 更新评分或评论（仅记录所有者）
func (s *WatchService) UpdateWatch(userID, watchID uint, req *UpdateWatchRequest) (*WatchDTO, error) {
	watch, err := s.watchRepo.GetByID(watchID)
	if err != nil {
		return nil, ErrWatchNotFound
	}
	if watch.UserID != userID {
		return nil, &AuthorizationError{}
	}

	if req.Rating != nil {
		if !utils.ValidateRating(*req.Rating) {
			return nil, errors.New("rating must be between 0 and 10")
		}
		watch.Rating = req.Rating
	}
	if req.Review != nil {
		watch.Review = *req.Review
	}

	if err := s.watchRepo.Update(watch); err != nil {
		return nil, err
	}
	return toWatchDTO(watch), nil
}

// DeleteWatch 删除观影记录（仅记录所有者，同时移除群组共享）
func (s *WatchService) DeleteWatch(userID, watchID uint) error {
	watch, err := s.watchRepo.GetByID(watchID)
	if err != nil {
		return ErrWatchNotFound
	}
	if watch.UserID != userID {
		return &AuthorizationError{}
	}
	return s.watchRepo.Delete(watchID)
}

// Share 将观影记录共享到群组（调用者必须拥有记录且是群组成员）
func (s *WatchService) Share(userID, watchID, groupID uint) error {
	watch, err := s.watchRepo.GetByID(watchID)
	if err != nil {
		return ErrWatchNotFound
	}
	if watch.UserID != userID {
		return &AuthorizationError{}
	}
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		return ErrNotMember
	}

	shared, err := s.watchRepo.IsShared(watchID, groupID)
	if err != nil {
		return err
	}
	if shared {
		return errors.New("watch already shared to this group")
	}

	if err := s.watchRepo.Share(watchID, groupID); err != nil {
		return err
	}

	title := ""
	if watch.Movie != nil {
		title = watch.Movie.Title
	}
	s.feed.Publish(models.FeedWatchShared, groupID, userID, map[string]any{"movie_title": title})
	return nil
}

// Unshare 取消群组共享（仅记录所有者）
func (s *WatchService) Unshare(userID, watchID, groupID uint) error {
	watch, err := s.watchRepo.GetByID(watchID)
	if err != nil {
		return ErrWatchNotFound
	}
	if watch.UserID != userID {
		return &AuthorizationError{}
	}
	return s.watchRepo.Unshare(watchID, groupID)
}

// GroupWatches 获取共享到群组的观影记录（调用者必须是成员）
func (s *WatchService) GroupWatches(userID, groupID uint, limit, offset int) ([]WatchDTO, int64, error) {
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		return nil, 0, ErrNotMember
	}

	watches, total, err := s.watchRepo.ListByGroup(groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]WatchDTO, 0, len(watches))
	for i := range watches {
		dtos = append(dtos, *toWatchDTO(&watches[i]))
	}
	return dtos, total, nil
}

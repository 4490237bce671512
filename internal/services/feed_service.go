package services

import (
	"time"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
)

// FeedService 动态查询服务
type FeedService struct {
	feedRepo  *repositories.FeedRepository
	groupRepo *repositories.GroupRepository
}

// NewFeedService 创建动态服务实例
func NewFeedService(feedRepo *repositories.FeedRepository, groupRepo *repositories.GroupRepository) *FeedService {
	return &FeedService{
		feedRepo:  feedRepo,
		groupRepo: groupRepo,
	}
}

// FeedItemDTO 动态条目数据传输对象
type FeedItemDTO struct {
	GroupID   uint   `json:"group_id,omitempty"`
	UserID    uint   `json:"user_id"`
	Kind      string `json:"kind"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"created_at"`
}

func toFeedDTOs(items []models.FeedItem) []FeedItemDTO {
	dtos := make([]FeedItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, FeedItemDTO{
			GroupID:   item.GroupID,
			UserID:    item.UserID,
			Kind:      item.Kind,
			Payload:   item.Payload,
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
	}
	return dtos
}

// ForUser 获取用户的个人动态
func (s *FeedService) ForUser(userID uint, limit, offset int) ([]FeedItemDTO, error) {
	items, err := s.feedRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toFeedDTOs(items), nil
}

// ForGroup 获取群组动态（调用者必须是成员）
func (s *FeedService) ForGroup(userID, groupID uint, limit, offset int) ([]FeedItemDTO, error) {
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		return nil, ErrNotMember
	}
	items, err := s.feedRepo.ListByGroup(groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toFeedDTOs(items), nil
}

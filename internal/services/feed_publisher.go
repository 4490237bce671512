package services

import (
	"encoding/json"
	"log"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/pkg/mq"
)

// FeedPublisher 动态事件发布器
// With a Kafka producer it publishes feed events for the consumer to
// persist; without one (degraded mode) it writes feed rows directly.
type FeedPublisher struct {
	producer *mq.KafkaProducer // nil when Kafka is unavailable
	feedRepo *repositories.FeedRepository
}

// NewFeedPublisher 创建动态事件发布器
func NewFeedPublisher(producer *mq.KafkaProducer, feedRepo *repositories.FeedRepository) *FeedPublisher {
	return &FeedPublisher{
		producer: producer,
		feedRepo: feedRepo,
	}
}

// Publish 发布一条动态事件（尽力而为，失败只记录日志）
// Feed entries are derived data; a failed publish must never fail the
// mutation that produced it.
func (p *FeedPublisher) Publish(kind string, groupID, userID uint, payload any) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("feed publish: failed to marshal payload: %v", err)
		return
	}

	if p.producer != nil {
		err := p.producer.SendFeedEvent(&mq.FeedEvent{
			Kind:    kind,
			GroupID: groupID,
			UserID:  userID,
			Payload: string(bytes),
		})
		if err == nil {
			return
		}
		log.Printf("feed publish: kafka send failed, falling back to direct write: %v", err)
	}

	item := &models.FeedItem{
		GroupID: groupID,
		UserID:  userID,
		Kind:    kind,
		Payload: string(bytes),
	}
	if err := p.feedRepo.Create(item); err != nil {
		log.Printf("feed publish: direct write failed: %v", err)
	}
}

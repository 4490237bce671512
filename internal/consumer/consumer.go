package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/pkg/mq"
)

// FeedConsumer 消费 Kafka 中的动态事件并落库为 feed_items
type FeedConsumer struct {
	feedRepo *repositories.FeedRepository
}

func NewFeedConsumer(feedRepo *repositories.FeedRepository) *FeedConsumer {
	return &FeedConsumer{
		feedRepo: feedRepo,
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *FeedConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *FeedConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *FeedConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event mq.FeedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("反序列化动态事件失败: %v", err)
			session.MarkMessage(message, "")
			continue
		}

		item := &models.FeedItem{
			GroupID: event.GroupID,
			UserID:  event.UserID,
			Kind:    event.Kind,
			Payload: event.Payload,
		}
		if err := consumer.feedRepo.Create(item); err != nil {
			log.Printf("保存来自 Kafka 的动态事件失败: %v", err)
			// 标记为已消费，避免死循环
			session.MarkMessage(message, "")
			continue
		}

		session.MarkMessage(message, "")
	}
	return nil
}

func StartConsumer(brokers []string, groupID string, topic string, consumer *FeedConsumer) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		log.Fatalf("创建消费者组客户端失败: %v", err)
	}

	ctx := context.Background()
	go func() {
		for {
			if err := client.Consume(ctx, []string{topic}, consumer); err != nil {
				log.Printf("消费者错误: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

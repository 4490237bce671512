package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// stagedActionsTTL bounds how long a submitted-but-unapplied batch survives.
const stagedActionsTTL = 24 * time.Hour

// GroupAction is one decision for one group the departing user created.
type GroupAction struct {
	GroupID          uint   `json:"groupId" binding:"required"`
	Action           string `json:"action" binding:"required"` // delete, transfer
	TransferToUserID uint   `json:"transferToUserId,omitempty"`
}

// Action kinds for GroupAction.
const (
	ActionDelete   = "delete"
	ActionTransfer = "transfer"
)

// StagedActionStore 暂存的群组处置决定
// A validated batch is parked in Redis between POST /groups/manage and the
// final account deletion. Reactivating the account drops the key.
type StagedActionStore struct {
	client *redis.Client
}

// NewStagedActionStore 创建暂存决定存储
func NewStagedActionStore(client *redis.Client) *StagedActionStore {
	return &StagedActionStore{client: client}
}

func stagedKey(userID uint) string {
	return fmt.Sprintf("user:%d:group_actions", userID)
}

// Save 暂存一组已验证的决定
func (s *StagedActionStore) Save(ctx context.Context, userID uint, actions []GroupAction) error {
	bytes, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("failed to marshal staged actions: %w", err)
	}
	if err := s.client.Set(ctx, stagedKey(userID), bytes, stagedActionsTTL).Err(); err != nil {
		return fmt.Errorf("failed to stage actions for user %d: %w", userID, err)
	}
	return nil
}

// Get 读取暂存的决定，没有时返回 nil
func (s *StagedActionStore) Get(ctx context.Context, userID uint) ([]GroupAction, error) {
	val, err := s.client.Get(ctx, stagedKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load staged actions for user %d: %w", userID, err)
	}

	var actions []GroupAction
	if err := json.Unmarshal([]byte(val), &actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal staged actions for user %d: %w", userID, err)
	}
	return actions, nil
}

// Clear 清除暂存的决定
func (s *StagedActionStore) Clear(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, stagedKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear staged actions for user %d: %w", userID, err)
	}
	return nil
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// TokenDenylist 已登出 token 的黑名单
// Logout revokes a bearer token before its natural expiry; the middleware
// rejects denied tokens. Keys carry a TTL so the set cleans itself up.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist 创建 token 黑名单
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func deniedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "token:denied:" + hex.EncodeToString(sum[:])
}

// Deny 拉黑 token 直到其过期时间
func (d *TokenDenylist) Deny(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	if err := d.client.Set(ctx, deniedKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to deny token: %w", err)
	}
	return nil
}

// IsDenied 检查 token 是否已被拉黑
func (d *TokenDenylist) IsDenied(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, deniedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return n > 0, nil
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "portfolio-revoked-token||"

type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

var _ RevocationList = (*RedisRevocationList)(nil)

// RedisRevocationList keeps revoked token ids until the token would have expired anyway.
type RedisRevocationList struct {
	redisClient *redis.Client
}

func NewRedisRevocationList(redisClient *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{
		redisClient: redisClient,
	}
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, the verifier rejects it on its own
		return nil
	}
	if err := l.redisClient.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := l.redisClient.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token %s: %w", tokenID, err)
	}
	return count > 0, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocations tracks tokens invalidated before their natural expiry.
// Logout and refresh write to it; the auth middleware reads from it.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenRevocations struct {
	rdb *redis.Client
}

func NewRedisTokenRevocations(rdb *redis.Client) TokenRevocations {
	return &redisTokenRevocations{rdb: rdb}
}

func revocationKey(tokenID string) string {
	return "revoked_token:" + tokenID
}

func (r *redisTokenRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired on its own; nothing to track.
		return nil
	}
	if err := r.rdb.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redisTokenRevocations.Revoke: %w", err)
	}
	return nil
}

func (r *redisTokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redisTokenRevocations.IsRevoked: %w", err)
	}
	return n > 0, nil
}

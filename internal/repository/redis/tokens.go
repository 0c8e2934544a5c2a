package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked:"

// TokenBlacklist remembers logged-out token IDs until they expire
type TokenBlacklist struct {
	client *Client
}

// NewTokenBlacklist creates a new token blacklist
func NewTokenBlacklist(client *Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke marks tokenID as unusable for ttl
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := revokedTokenPrefix + tokenID
	if err := b.client.rdb.Set(ctx, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedTokenPrefix + tokenID
	err := b.client.rdb.Get(ctx, key).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check token: %w", err)
	}
}

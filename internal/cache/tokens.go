package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklist remembers revoked JWT ids until the token would expire anyway.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// Revoke is a no-op without redis; logout then only discards the token client-side.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	if b == nil || b.client == nil || jti == "" {
		return nil
	}

	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if b == nil || b.client == nil || jti == "" {
		return false, nil
	}

	n, err := b.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

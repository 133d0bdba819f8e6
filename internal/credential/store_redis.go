package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"staffdesk/pkg/platform/sentinel"
)

const redisTokenKey = "staffdesk:auth_token"

// RedisBackend shares one token between processes, for headless deployments
// (CI bots, kiosk terminals) where several workers act as the same operator.
// The key carries the same TTL as the cookie copy so an abandoned deployment
// does not hold a live credential forever.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Load(ctx context.Context) (string, error) {
	token, err := b.client.Get(ctx, redisTokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w: %w", sentinel.ErrUnavailable, err)
	}
	if token == "" {
		return "", sentinel.ErrNotFound
	}
	return token, nil
}

func (b *RedisBackend) Save(ctx context.Context, token string) error {
	if err := b.client.Set(ctx, redisTokenKey, token, cookieMaxAge).Err(); err != nil {
		return fmt.Errorf("redis set token: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, redisTokenKey).Err(); err != nil {
		return fmt.Errorf("redis del token: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

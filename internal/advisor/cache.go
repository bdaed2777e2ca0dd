package advisor

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// SuggestionCache memoizes advisor text so repeated requests for the same
// draft or analysis skip the network call.
type SuggestionCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type NoopSuggestionCache struct{}

func (NoopSuggestionCache) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (NoopSuggestionCache) Set(_ context.Context, _ string, _ string, _ time.Duration) error {
	return nil
}

type RedisSuggestionCache struct {
	client *redis.Client
}

func NewRedisSuggestionCache(addr string, password string, db int) *RedisSuggestionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSuggestionCache{client: client}
}

func (c *RedisSuggestionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSuggestionCache) Close() error {
	return c.client.Close()
}

func (c *RedisSuggestionCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisSuggestionCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if value == "" {
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

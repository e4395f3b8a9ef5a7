package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, token string) (*Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c Cart
	if err2 := json.Unmarshal(data, &c); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}

	return &c, nil
}

func (r *RedisCache) Set(ctx context.Context, token string, cart *Cart) error {
	jsonCart, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if err2 := r.client.Set(ctx, cacheKey(token), jsonCart, ttl).Err(); err2 != nil {
		return fmt.Errorf("redis set failed: %w", err2)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(token string) string {
	return fmt.Sprintf("cart:%s", token)
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "payoff:plan:"

// RedisCache shares computed plans between processes through Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr. Nothing is dialed until first use.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	return &RedisCache{client: client, ttl: ttl}
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// RedisKey is the Redis key a plan is stored under.
func RedisKey(key string) string {
	return redisKeyPrefix + key
}

// Get looks up a plan by key.
func (c *RedisCache) Get(ctx context.Context, key string) (*model.PaymentPlan, bool, error) {
	body, err := c.client.Get(ctx, RedisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var plan model.PaymentPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, false, fmt.Errorf("decoding cached plan: %w", err)
	}
	return &plan, true, nil
}

// Put stores a plan with the cache TTL.
func (c *RedisCache) Put(ctx context.Context, key string, plan *model.PaymentPlan) error {
	body, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, RedisKey(key), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

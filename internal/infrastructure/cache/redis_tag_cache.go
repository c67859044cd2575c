package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTagCache implements TagCache using Redis. Tag membership is kept
// in Redis sets ("tag:<name>" -> keys) so invalidation can delete every
// member of a tag in one pass. Suitable for multi-instance deployments
// that need a shared cache.
type RedisTagCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisTagCache creates a Redis-backed tag cache and verifies the
// connection before returning
func NewRedisTagCache(cfg RedisConfig) (*RedisTagCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTagCache{
		client:    client,
		keyPrefix: "cache:",
	}, nil
}

// NewRedisTagCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisTagCacheWithClient(client *redis.Client, keyPrefix string) *RedisTagCache {
	if keyPrefix == "" {
		keyPrefix = "cache:"
	}
	return &RedisTagCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisTagCache) entryKey(key string) string {
	return c.keyPrefix + "entry:" + key
}

func (c *RedisTagCache) tagKey(tag string) string {
	return c.keyPrefix + "tag:" + tag
}

// GetJSON loads the entry at key into dest
func (c *RedisTagCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.entryKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

// SetJSON stores value at key and records its tag memberships atomically
func (c *RedisTagCache) SetJSON(ctx context.Context, key string, value any, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	entryKey := c.entryKey(key)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, entryKey, data, 0)
	for _, tag := range tags {
		pipe.SAdd(ctx, c.tagKey(tag), entryKey)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate deletes every entry associated with any of the tags
func (c *RedisTagCache) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := c.tagKey(tag)

		members, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return fmt.Errorf("failed to load tag members: %w", err)
		}

		pipe := c.client.TxPipeline()
		if len(members) > 0 {
			pipe.Del(ctx, members...)
		}
		pipe.Del(ctx, tagKey)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
		}
	}
	return nil
}

// Close closes the Redis client
func (c *RedisTagCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisTagCache) GetClient() *redis.Client {
	return c.client
}

var _ TagCache = (*RedisTagCache)(nil)

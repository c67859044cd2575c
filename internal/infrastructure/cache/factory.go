package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/infrastructure/config"
)

// TagCacheFactory creates tag caches based on configuration
type TagCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// TagCacheFactoryOption is a functional option for configuring the factory
type TagCacheFactoryOption func(*TagCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) TagCacheFactoryOption {
	return func(f *TagCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) TagCacheFactoryOption {
	return func(f *TagCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewTagCacheFactory creates a new factory
func NewTagCacheFactory(cfg config.RedisConfig, opts ...TagCacheFactoryOption) *TagCacheFactory {
	f := &TagCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed tag cache
func (f *TagCacheFactory) CreateRedisCache() (TagCache, error) {
	cache, err := NewRedisTagCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis tag cache: %w", err)
	}
	return cache, nil
}

// CreateStore creates a tag cache, preferring Redis and falling back to
// the in-memory implementation when Redis is unavailable and fallback
// is allowed
func (f *TagCacheFactory) CreateStore() (TagCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis tag cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for caching but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory tag cache. "+
		"Invalidation will not propagate across instances.",
		zap.Error(err),
	)
	return NewInMemoryTagCache(), nil
}

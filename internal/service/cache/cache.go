package cache

import (
	"context"
	"time"

	"FinCycle/pkg/config"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// New picks the cache backend from config: Redis when enabled, in-memory otherwise.
// It returns nil when cache.ttl is zero, which disables response caching.
func New(cfg config.Cache) BytesCache {
	if cfg.TTL <= 0 {
		return nil
	}
	if cfg.Redis.Enabled {
		return NewRedisCache(RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	}
	return NewTTLCache()
}

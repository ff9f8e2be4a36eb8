package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/brandproof/internal/domain"
)

const keyPrefix = "brandcfg:"

// memcached reads expirations above 30 days as unix timestamps.
const maxRelativeExpiration = 30 * 24 * time.Hour

// MemcacheCache shares configuration between processes through memcached.
// Cache failures degrade to misses.
type MemcacheCache struct {
	client *memcache.Client
	ttl    time.Duration
}

func NewMemcacheCache(client *memcache.Client, ttl time.Duration) *MemcacheCache {
	return &MemcacheCache{client: client, ttl: ttl}
}

// Key maps a brand name onto a memcached-safe key.
func Key(name string) string {
	return keyPrefix + strconv.FormatUint(xxh3.HashString(name), 16)
}

func (c *MemcacheCache) Get(ctx context.Context, key string) (domain.BrandConfig, bool) {
	item, err := c.client.Get(Key(key))
	if err != nil {
		if err != memcache.ErrCacheMiss {
			slog.WarnContext(ctx, "memcache get failed", slog.String("error", err.Error()), slog.String("module", "cache"))
		}
		return domain.BrandConfig{}, false
	}

	var cfg domain.BrandConfig
	if err := json.Unmarshal(item.Value, &cfg); err != nil {
		return domain.BrandConfig{}, false
	}
	return cfg, true
}

func (c *MemcacheCache) Set(ctx context.Context, key string, cfg domain.BrandConfig) {
	value, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	err = c.client.Set(&memcache.Item{
		Key:        Key(key),
		Value:      value,
		Expiration: expiration(c.ttl),
	})
	if err != nil {
		slog.WarnContext(ctx, "memcache set failed", slog.String("error", err.Error()), slog.String("module", "cache"))
	}
}

func (c *MemcacheCache) Delete(ctx context.Context, key string) {
	err := c.client.Delete(Key(key))
	if err != nil && err != memcache.ErrCacheMiss {
		slog.WarnContext(ctx, "memcache delete failed", slog.String("error", err.Error()), slog.String("module", "cache"))
	}
}

func expiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeExpiration {
		ttl = maxRelativeExpiration
	}
	return int32(ttl / time.Second)
}

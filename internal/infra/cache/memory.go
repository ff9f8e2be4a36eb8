package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/totegamma/brandproof/internal/domain"
)

// MemoryCache keeps configuration in process memory.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (domain.BrandConfig, bool) {
	cached, found := c.cache.Get(key)
	if !found {
		return domain.BrandConfig{}, false
	}
	cfg, ok := cached.(domain.BrandConfig)
	return cfg, ok
}

func (c *MemoryCache) Set(ctx context.Context, key string, cfg domain.BrandConfig) {
	c.cache.Set(key, cfg, gocache.DefaultExpiration)
}

func (c *MemoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}

package repository

import (
	"context"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
	"github.com/totegamma/brandproof/internal/usecase"
)

// ConfigCache stores brand configuration by normalized brand name.
type ConfigCache interface {
	Get(ctx context.Context, key string) (domain.BrandConfig, bool)
	Set(ctx context.Context, key string, cfg domain.BrandConfig)
	Delete(ctx context.Context, key string)
}

// CachedBrandRepository serves configuration from cache and falls back to
// the wrapped repository. Missing brands are never cached.
type CachedBrandRepository struct {
	next  usecase.BrandRepository
	cache ConfigCache
}

func NewCachedBrandRepository(next usecase.BrandRepository, cache ConfigCache) *CachedBrandRepository {
	return &CachedBrandRepository{next: next, cache: cache}
}

func (r *CachedBrandRepository) Load(ctx context.Context, brand string) (domain.BrandConfig, error) {
	key := brandproof.NormalizeBrand(brand)
	if cfg, ok := r.cache.Get(ctx, key); ok {
		return cfg, nil
	}

	cfg, err := r.next.Load(ctx, brand)
	if err != nil {
		return domain.BrandConfig{}, err
	}
	r.cache.Set(ctx, key, cfg)
	return cfg, nil
}

// Invalidate drops the cached configuration of brand.
func (r *CachedBrandRepository) Invalidate(ctx context.Context, brand string) {
	r.cache.Delete(ctx, brandproof.NormalizeBrand(brand))
}

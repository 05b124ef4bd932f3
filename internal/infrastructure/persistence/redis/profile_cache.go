package redis

import (
	"context"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ProfileCache implements profile.Cache on top of the generic Cache.
// Written through by the sync worker after a successful remote push so
// that other services read fresh progression data without hitting the
// profile store.
type ProfileCache struct {
	cache *Cache
}

// NewProfileCache creates a new ProfileCache.
func NewProfileCache(cache *Cache) *ProfileCache {
	return &ProfileCache{cache: cache}
}

// Get returns a cached profile or ErrCacheMiss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*profile.Profile, error) {
	var p profile.Profile
	if err := c.cache.Get(ctx, PrefixProfile+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Set stores a profile with the standard profile TTL.
func (c *ProfileCache) Set(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return ErrCacheNilValue
	}
	return c.cache.Set(ctx, PrefixProfile+p.ID, p, TTLProfileCache)
}

// Delete evicts a profile from the cache.
func (c *ProfileCache) Delete(ctx context.Context, id string) error {
	return c.cache.Delete(ctx, PrefixProfile+id)
}

package redis

import (
	"context"
	"errors"

	"github.com/orbita-academy/progress-hub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache stores computed leaderboard boards keyed by month.
// Implements the read model's board cache: Get returns (nil, nil) on a
// plain miss so callers fall back to recomputing from the profile store.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// Get returns the cached board for the given month, or (nil, nil) when
// no board is cached.
func (c *LeaderboardCache) Get(ctx context.Context, month string) (*leaderboard.Board, error) {
	var board leaderboard.Board
	err := c.cache.Get(ctx, PrefixLeaderboard+month, &board)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// Set stores the board under its month key with the leaderboard TTL.
func (c *LeaderboardCache) Set(ctx context.Context, board *leaderboard.Board) error {
	if board == nil {
		return ErrCacheNilValue
	}
	return c.cache.Set(ctx, PrefixLeaderboard+board.Month, board, TTLLeaderboardCache)
}

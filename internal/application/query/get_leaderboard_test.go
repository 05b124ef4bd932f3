package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-academy/progress-hub/internal/domain/leaderboard"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

func rankedProfile(t *testing.T, id string, xp profile.XP) *profile.Profile {
	t.Helper()
	p, err := profile.NewProfile(profile.NewProfileParams{ID: id, DisplayName: "Ученик " + id})
	require.NoError(t, err)
	p.XP = xp
	p.Level = profile.LevelOf(xp)
	return p
}

func leaderboardAsOf() time.Time {
	return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func TestGetLeaderboard_BuildsFromStore(t *testing.T) {
	repo := newFakeRepository(
		rankedProfile(t, "s1", 3000),
		rankedProfile(t, "s2", 1000),
		rankedProfile(t, "s3", 2000),
	)
	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), nil, 0, nil)

	board, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	require.NoError(t, err)

	require.Len(t, board.AllTime, 3)
	assert.Equal(t, "s1", board.AllTime[0].ProfileID)
	assert.Equal(t, "2026-03", board.Month)
	assert.Equal(t, 1, repo.listCalls)
}

func TestGetLeaderboard_CacheHit(t *testing.T) {
	repo := newFakeRepository(rankedProfile(t, "s1", 3000))
	cached := &leaderboard.Board{Month: "2026-03"}
	cache := &fakeBoardCache{board: cached}

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), cache, 0, nil)

	board, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	require.NoError(t, err)

	assert.Same(t, cached, board)
	assert.Zero(t, repo.listCalls)
}

func TestGetLeaderboard_CacheMissPopulatesCache(t *testing.T) {
	repo := newFakeRepository(rankedProfile(t, "s1", 3000))
	cache := &fakeBoardCache{}

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), cache, 0, nil)

	board, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.setCalls)
	assert.Same(t, board, cache.board)
}

func TestGetLeaderboard_ProfileIDBypassesCache(t *testing.T) {
	// The cached board carries no per-user entry; a personalized query
	// must recompute so the user's rank matches the ranking pass.
	repo := newFakeRepository(
		rankedProfile(t, "s1", 3000),
		rankedProfile(t, "s2", 1000),
	)
	cache := &fakeBoardCache{board: &leaderboard.Board{Month: "2026-03"}}

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), cache, 0, nil)

	board, err := h.Handle(context.Background(), GetLeaderboardQuery{
		ProfileID: "s2",
		AsOf:      leaderboardAsOf(),
	})
	require.NoError(t, err)

	assert.Zero(t, cache.getCalls)
	assert.Equal(t, 1, repo.listCalls)
	require.NotNil(t, board.UserAllTime)
	assert.Equal(t, leaderboard.Rank(2), board.UserAllTime.Rank)
}

func TestGetLeaderboard_SkipCache(t *testing.T) {
	repo := newFakeRepository(rankedProfile(t, "s1", 3000))
	cache := &fakeBoardCache{board: &leaderboard.Board{Month: "2026-03"}}

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), cache, 0, nil)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{
		AsOf:      leaderboardAsOf(),
		SkipCache: true,
	})
	require.NoError(t, err)

	assert.Zero(t, cache.getCalls)
	assert.Equal(t, 1, repo.listCalls)
}

func TestGetLeaderboard_CacheKeyUsesConfiguredLocation(t *testing.T) {
	// 2026-03-31 23:00 UTC is already April in UTC+5. The cache key and
	// Board.Month must both come from the aggregator's location, or the
	// cached board disagrees with its key near month boundaries.
	loc := time.FixedZone("UTC+5", 5*60*60)
	repo := newFakeRepository(rankedProfile(t, "s1", 3000))
	cache := &fakeBoardCache{}

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(loc), cache, 0, nil)

	asOf := time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)
	board, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: asOf})
	require.NoError(t, err)

	assert.Equal(t, "2026-04", board.Month)
	assert.Equal(t, "2026-04", cache.lastGetMonth)
	require.Equal(t, 1, cache.setCalls)
	assert.Same(t, board, cache.board)
}

func TestGetLeaderboard_CacheErrorFallsBack(t *testing.T) {
	repo := newFakeRepository(rankedProfile(t, "s1", 3000))
	cache := &fakeBoardCache{getErr: errors.New("redis down")}

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), cache, 0, nil)

	board, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	require.NoError(t, err)
	require.Len(t, board.AllTime, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestGetLeaderboard_StoreError(t *testing.T) {
	repo := newFakeRepository()
	repo.listErr = errors.New("connection refused")

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), nil, 0, nil)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	assert.Error(t, err)
}

func TestGetLeaderboard_FetchCapPassedToStore(t *testing.T) {
	repo := newFakeRepository(rankedProfile(t, "s1", 3000))

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), nil, 100, nil)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastListCap)
}

func TestGetLeaderboard_HealsPopulation(t *testing.T) {
	corrupted := rankedProfile(t, "s1", 2500)
	corrupted.Level = 1
	repo := newFakeRepository(corrupted)

	h := NewGetLeaderboardHandler(repo, leaderboard.NewAggregator(time.UTC), nil, 0, nil)

	board, err := h.Handle(context.Background(), GetLeaderboardQuery{AsOf: leaderboardAsOf()})
	require.NoError(t, err)
	require.Len(t, board.AllTime, 1)
	assert.Equal(t, profile.Level(3), board.AllTime[0].Level)
}

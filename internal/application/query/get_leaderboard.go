// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/leaderboard"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Строит лидерборд (all-time и текущий месяц) из популяции профилей.
// Чтение без записей; ранги вычисляются по полной выборке хранилища,
// усечение до топа происходит после ранжирования.
// ══════════════════════════════════════════════════════════════════════════════

// BoardCache caches a built leaderboard (Redis). Get returns (nil, nil) on
// a plain miss. A miss or cache error is never fatal; the query falls back
// to computing from the profile store.
type BoardCache interface {
	Get(ctx context.Context, month string) (*leaderboard.Board, error)
	Set(ctx context.Context, board *leaderboard.Board) error
}

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// ProfileID - идентификатор запрашивающего ученика. Если указан,
	// его запись возвращается даже вне топа.
	ProfileID string

	// AsOf - момент времени месячного рейтинга. Zero value = сейчас.
	AsOf time.Time

	// SkipCache forces a fresh computation from the profile store.
	SkipCache bool
}

// GetLeaderboardHandler handles leaderboard queries.
type GetLeaderboardHandler struct {
	profiles   profile.Repository
	aggregator *leaderboard.Aggregator
	cache      BoardCache
	fetchCap   int
	clock      func() time.Time
	log        *logger.Logger
}

// NewGetLeaderboardHandler creates the handler. cache may be nil.
// fetchCap bounds the population pulled from the store; the store orders by
// XP before applying the cap, so top ranks stay correct beyond the cap.
func NewGetLeaderboardHandler(
	profiles profile.Repository,
	aggregator *leaderboard.Aggregator,
	cache BoardCache,
	fetchCap int,
	log *logger.Logger,
) *GetLeaderboardHandler {
	if aggregator == nil {
		aggregator = leaderboard.NewAggregator(time.UTC)
	}
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		profiles:   profiles,
		aggregator: aggregator,
		cache:      cache,
		fetchCap:   fetchCap,
		clock:      func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// Handle builds (or serves from cache) the leaderboard.
// The cached board carries no per-user entry, so a query with ProfileID
// always recomputes: the user's rank must come from the same ranking pass.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*leaderboard.Board, error) {
	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = h.clock()
	}

	useCache := h.cache != nil && !q.SkipCache && q.ProfileID == ""

	if useCache {
		board, err := h.cache.Get(ctx, h.aggregator.Month(asOf))
		if err != nil {
			h.log.Warn("leaderboard cache read failed", logger.Err(err))
		} else if board != nil {
			return board, nil
		}
	}

	board, err := h.Build(ctx, q.ProfileID, asOf)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := h.cache.Set(ctx, board); err != nil {
			h.log.Warn("leaderboard cache write failed", logger.Err(err))
		}
	}

	return board, nil
}

// Build computes the leaderboard directly from the profile store.
// Also used by the worker job that warms the cache.
func (h *GetLeaderboardHandler) Build(ctx context.Context, profileID string, asOf time.Time) (*leaderboard.Board, error) {
	population, err := h.profiles.ListRanked(ctx, h.fetchCap)
	if err != nil {
		return nil, err
	}

	for _, p := range population {
		p.Heal()
	}

	return h.aggregator.Build(population, profileID, asOf), nil
}

// Package jobs contains implementations of scheduled jobs for the
// Orbita Progress Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orbita-academy/progress-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob recomputes the leaderboard from the profile
// store and warms the board cache. Interactive reads then serve the
// cached board instead of ranking the full population per request.
type RebuildLeaderboardJob struct {
	leaderboards *query.GetLeaderboardHandler
	cache        query.BoardCache
	timeout      time.Duration
	logger       *slog.Logger
}

// NewRebuildLeaderboardJob creates the job.
func NewRebuildLeaderboardJob(
	leaderboards *query.GetLeaderboardHandler,
	cache query.BoardCache,
	logger *slog.Logger,
) *RebuildLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildLeaderboardJob{
		leaderboards: leaderboards,
		cache:        cache,
		timeout:      30 * time.Second,
		logger:       logger,
	}
}

// Name implements scheduler.Job.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description implements scheduler.Job.
func (j *RebuildLeaderboardJob) Description() string {
	return "Recomputes the leaderboard and warms the board cache"
}

// Run implements scheduler.Job.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()

	board, err := j.leaderboards.Build(ctx, "", time.Now().UTC())
	if err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}

	if err := j.cache.Set(ctx, board); err != nil {
		return fmt.Errorf("warm leaderboard cache: %w", err)
	}

	j.logger.Info("leaderboard rebuilt",
		"month", board.Month,
		"all_time_entries", len(board.AllTime),
		"monthly_entries", len(board.Monthly),
		"duration", time.Since(start).String(),
	)
	return nil
}

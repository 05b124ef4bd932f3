package jobs

import (
	"context"
	"log/slog"
)

// ══════════════════════════════════════════════════════════════════════════════
// FLUSH PROFILES JOB
// ══════════════════════════════════════════════════════════════════════════════

// Drainer pushes pending profile changes to the remote store.
// Satisfied by the remote sync service.
type Drainer interface {
	Drain(ctx context.Context) int
}

// FlushProfilesJob periodically drains the session store's dirty set.
// A safety net behind the event-driven sync: profiles that failed their
// first push get another chance on every tick.
type FlushProfilesJob struct {
	drainer Drainer
	logger  *slog.Logger
}

// NewFlushProfilesJob creates the job.
func NewFlushProfilesJob(drainer Drainer, logger *slog.Logger) *FlushProfilesJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlushProfilesJob{drainer: drainer, logger: logger}
}

// Name implements scheduler.Job.
func (j *FlushProfilesJob) Name() string {
	return "flush_profiles"
}

// Description implements scheduler.Job.
func (j *FlushProfilesJob) Description() string {
	return "Pushes pending profile changes to the remote store"
}

// Run implements scheduler.Job.
func (j *FlushProfilesJob) Run(ctx context.Context) error {
	synced := j.drainer.Drain(ctx)
	if synced > 0 {
		j.logger.Info("profiles flushed", "synced", synced)
	}
	return nil
}

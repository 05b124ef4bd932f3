package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
	"github.com/orbita-academy/progress-hub/pkg/circuitbreaker"
	"github.com/orbita-academy/progress-hub/pkg/logger"
	"github.com/orbita-academy/progress-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOTE SYNC
// Пушит грязные профили из кэша сессии в удалённое хранилище.
// Локальная запись - источник истины: провал пуша логируется и
// повторяется позже, но никогда не откатывает локальное состояние.
// ══════════════════════════════════════════════════════════════════════════════

// RemoteSync drains the session store's dirty set into the remote
// profile store. It implements the command layer's RemoteSyncer:
// Schedule only wakes the loop and never blocks the caller.
type RemoteSync struct {
	sessions profile.SessionStore
	profiles profile.Repository
	cache    profile.Cache
	events   shared.EventPublisher

	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	interval time.Duration
	log      *logger.Logger

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// RemoteSyncParams holds RemoteSync dependencies. Cache and Events may
// be nil; Interval defaults to 30 seconds.
type RemoteSyncParams struct {
	Sessions profile.SessionStore
	Profiles profile.Repository
	Cache    profile.Cache
	Events   shared.EventPublisher
	Interval time.Duration
	Logger   *logger.Logger
}

// NewRemoteSync creates the sync service. Call Start to begin draining.
func NewRemoteSync(params RemoteSyncParams) *RemoteSync {
	if params.Interval <= 0 {
		params.Interval = 30 * time.Second
	}
	if params.Logger == nil {
		params.Logger = logger.Default()
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 3

	return &RemoteSync{
		sessions: params.Sessions,
		profiles: params.Profiles,
		cache:    params.Cache,
		events:   params.Events,
		breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig("profile-store")),
		retryCfg: retryCfg,
		interval: params.Interval,
		log:      params.Logger.With(logger.String("component", "remote_sync")),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Schedule marks that a profile needs pushing. The dirty set itself
// lives in the session store; this only nudges the drain loop.
func (s *RemoteSync) Schedule(profileID string) {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Start launches the drain loop.
func (s *RemoteSync) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop shuts the loop down after a final drain attempt.
func (s *RemoteSync) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *RemoteSync) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			s.Drain(drainCtx)
			cancel()
			return
		case <-s.wake:
			s.Drain(ctx)
		case <-ticker.C:
			s.Drain(ctx)
		}
	}
}

// Drain pushes every dirty profile once. Failures leave the dirty mark
// in place for the next pass. Returns the number of profiles synced.
func (s *RemoteSync) Drain(ctx context.Context) int {
	synced := 0
	for _, id := range s.sessions.Dirty() {
		if err := s.pushOne(ctx, id); err != nil {
			s.log.Warn("profile sync failed",
				logger.String("profile_id", id),
				logger.Err(err),
			)
			s.publish(newSyncEvent(shared.EventProfileSyncFailed, id, err))
			if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
				break
			}
			continue
		}

		s.sessions.ClearDirty(id)
		synced++
		s.publish(newSyncEvent(shared.EventProfileSynced, id, nil))
	}
	return synced
}

func (s *RemoteSync) pushOne(ctx context.Context, id string) error {
	p, ok := s.sessions.Read(id)
	if !ok {
		// Dirty mark without a cached profile. Nothing to push.
		s.sessions.ClearDirty(id)
		return nil
	}

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, s.retryCfg, func(ctx context.Context) error {
			return s.profiles.UpdateProgress(ctx, p)
		})
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, p); cacheErr != nil {
			s.log.Debug("profile cache write-through failed",
				logger.String("profile_id", id),
				logger.Err(cacheErr),
			)
		}
	}

	s.log.Debug("profile synced", logger.String("profile_id", id))
	return nil
}

func (s *RemoteSync) publish(event shared.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event); err != nil {
		s.log.Debug("sync event publish failed", logger.Err(err))
	}
}

// syncEvent reports the outcome of a remote push.
type syncEvent struct {
	shared.BaseEvent
	failure string
}

func newSyncEvent(eventType shared.EventType, profileID string, err error) syncEvent {
	e := syncEvent{BaseEvent: shared.NewBaseEvent(eventType, profileID)}
	if err != nil {
		e.failure = err.Error()
	}
	return e
}

// Payload implements shared.Event.
func (e syncEvent) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"profile_id": e.AggregateID(),
	}
	if e.failure != "" {
		payload["error"] = e.failure
	}
	return payload
}

// Package main - точка входа фонового воркера движка прогресса Orbita.
// Воркер пересобирает лидерборд, прогревает кэш и дожимает отложенные
// синхронизации профилей.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/orbita-academy/progress-hub/config"
	"github.com/orbita-academy/progress-hub/internal/application/query"
	"github.com/orbita-academy/progress-hub/internal/domain/leaderboard"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/persistence/memory"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/persistence/redis"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/scheduler"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/scheduler/jobs"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/service"
	"github.com/orbita-academy/progress-hub/pkg/logger"
	"github.com/orbita-academy/progress-hub/pkg/timeutil"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.App.LogLevel),
	})
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	log.Info("starting Orbita Progress Hub worker",
		logger.String("env", cfg.App.Environment),
	)

	loc, err := timeutil.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Хранилища
	// ─────────────────────────────────────────────────────────────────────────
	var dbConn *postgres.Connection
	if cfg.Database.URL != "" {
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	} else {
		pgCfg := postgres.DefaultConfig()
		pgCfg.Host = cfg.Database.Host
		pgCfg.Port = cfg.Database.Port
		pgCfg.Database = cfg.Database.Name
		pgCfg.User = cfg.Database.User
		pgCfg.Password = cfg.Database.Password
		pgCfg.SSLMode = cfg.Database.SSLMode
		dbConn, err = postgres.NewConnection(ctx, pgCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB

	cache, err := redis.NewCache(redisCfg)
	if err != nil {
		// Без Redis воркеру нечего прогревать, но дожим синхронизаций
		// всё ещё полезен.
		log.Warn("failed to connect to Redis, cache warming disabled", logger.Err(err))
	} else {
		defer cache.Close()
	}

	profileRepo := postgres.NewProfileRepository(dbConn)
	sessions := memory.NewSessionStore()

	remoteSync := service.NewRemoteSync(service.RemoteSyncParams{
		Sessions: sessions,
		Profiles: profileRepo,
		Interval: cfg.Sync.Interval,
		Logger:   log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Планировщик
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.New(scheduler.Config{
		Logger:   slogger,
		Timezone: loc,
	})

	if cache != nil {
		boardCache := redis.NewLeaderboardCache(cache)
		getLeaderboard := query.NewGetLeaderboardHandler(
			profileRepo, leaderboard.NewAggregator(loc), boardCache, cfg.Leaderboard.FetchCap, log)

		rebuildJob := jobs.NewRebuildLeaderboardJob(getLeaderboard, boardCache, slogger)
		if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.LeaderboardRebuildInterval)); err != nil {
			return err
		}
	}

	flushJob := jobs.NewFlushProfilesJob(remoteSync, slogger)
	if err := sched.Register(flushJob, scheduler.NewIntervalSchedule(cfg.Scheduler.FlushInterval)); err != nil {
		return err
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error("scheduler stop failed", logger.Err(err))
			}
		}()
	} else {
		log.Warn("scheduler disabled, worker is idle")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	log.Info("Orbita Progress Hub worker stopped")
	return nil
}

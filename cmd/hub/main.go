// Package main - точка входа REST API движка прогресса Orbita.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: хранилища, кэши, шина событий, фоновая синхронизация
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orbita-academy/progress-hub/config"
	"github.com/orbita-academy/progress-hub/internal/application/command"
	"github.com/orbita-academy/progress-hub/internal/application/query"
	"github.com/orbita-academy/progress-hub/internal/domain/badge"
	"github.com/orbita-academy/progress-hub/internal/domain/leaderboard"
	"github.com/orbita-academy/progress-hub/internal/domain/notification"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/messaging"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/persistence/memory"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/persistence/redis"
	"github.com/orbita-academy/progress-hub/internal/infrastructure/service"
	httpserver "github.com/orbita-academy/progress-hub/internal/interface/http"
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
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := config.LoadFeatureFlags()

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.App.LogLevel),
	})
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	log.Info("starting Orbita Progress Hub",
		logger.String("env", cfg.App.Environment),
		logger.String("timezone", cfg.App.Timezone),
	)

	loc, err := timeutil.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
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
		pgCfg.MaxConns = cfg.Database.MaxConns
		pgCfg.MinConns = cfg.Database.MinConns
		dbConn, err = postgres.NewConnection(ctx, pgCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.RunMigrations {
		log.Info("running database migrations...")
		if err := postgres.NewMigrator(dbConn).Up(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var boardCache query.BoardCache
	var profileCache *redis.ProfileCache

	if cfg.Redis.Enabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, cacheErr := redis.NewCache(redisCfg)
		if cacheErr != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(cacheErr))
		} else {
			defer cache.Close()
			profileCache = redis.NewProfileCache(cache)
			if flags.IsEnabled(config.FeatureLeaderboardCache) {
				boardCache = redis.NewLeaderboardCache(cache)
			}
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ХРАНИЛИЩА И ШИНА СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	profileRepo := postgres.NewProfileRepository(dbConn)
	sessions := memory.NewSessionStore()

	bus := messaging.NewInMemoryEventBus(messaging.Config{
		Async:          cfg.EventBus.Async,
		Workers:        cfg.EventBus.Workers,
		QueueSize:      cfg.EventBus.QueueSize,
		HandlerTimeout: cfg.EventBus.HandlerTimeout,
	}, slogger)
	defer func() {
		log.Info("closing event bus...")
		bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. УВЕДОМЛЕНИЯ И ФОНОВАЯ СИНХРОНИЗАЦИЯ
	// ─────────────────────────────────────────────────────────────────────────
	var sink notification.Sink = service.NewLogSink(log)
	messaging.RegisterProgressHandlers(bus, sink, messaging.HandlerToggles{
		XPGained:      flags.IsEnabled(config.FeatureNotifyXPGained),
		LevelUp:       flags.IsEnabled(config.FeatureNotifyLevelUp),
		BadgeUnlocked: flags.IsEnabled(config.FeatureNotifyBadgeUnlocked),
	}, slogger)

	var syncer command.RemoteSyncer
	var remoteSync *service.RemoteSync
	if flags.IsEnabled(config.FeatureRemoteSync) {
		params := service.RemoteSyncParams{
			Sessions: sessions,
			Profiles: profileRepo,
			Events:   bus,
			Interval: cfg.Sync.Interval,
			Logger:   log,
		}
		if profileCache != nil {
			params.Cache = profileCache
		}
		remoteSync = service.NewRemoteSync(params)
		remoteSync.Start(ctx)
		defer remoteSync.Stop()
		syncer = remoteSync
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	evaluator := badge.NewEvaluator()
	aggregator := leaderboard.NewAggregator(loc)
	policy := command.AwardPolicy{
		LessonXP:           profile.XP(cfg.Awards.LessonXP),
		LessonStudyMinutes: profile.StudyMinutes(cfg.Awards.LessonStudyMinutes),
		WorkshopXP:         profile.XP(cfg.Awards.WorkshopXP),
	}

	recordCompletion := command.NewRecordCompletionHandler(
		sessions, profileRepo, evaluator, bus, syncer, policy, nil, loc, log)
	refreshBadges := command.NewRefreshBadgesHandler(
		sessions, profileRepo, evaluator, bus, syncer, log)
	createProfile := command.NewCreateProfileHandler(sessions, profileRepo, log)

	getLeaderboard := query.NewGetLeaderboardHandler(
		profileRepo, aggregator, boardCache, cfg.Leaderboard.FetchCap, log)
	getDailyProgress := query.NewGetDailyProgressHandler(sessions, profileRepo, nil, loc)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpCfg, httpserver.Dependencies{
		RecordCompletionHandler: recordCompletion,
		RefreshBadgesHandler:    refreshBadges,
		CreateProfileHandler:    createProfile,
		GetLeaderboardHandler:   getLeaderboard,
		GetDailyProgressHandler: getDailyProgress,
		Logger:                  log,
		HealthChecker:           &healthChecker{db: dbConn},
	})

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", logger.Err(err))
	}

	log.Info("Orbita Progress Hub stopped")
	return nil
}

// healthChecker probes the hub's hard dependency.
type healthChecker struct {
	db *postgres.Connection
}

func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	status := httpserver.HealthStatus{
		Healthy:    true,
		Components: map[string]string{},
		CheckedAt:  time.Now().UTC(),
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Components["postgres"] = err.Error()
		status.Message = "profile store unreachable"
	} else {
		status.Components["postgres"] = "ok"
	}

	return status
}

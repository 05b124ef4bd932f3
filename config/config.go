// Package config загружает и валидирует конфигурацию приложения.
// Все значения читаются из переменных окружения с префиксом ORBITA_;
// каждое поле несёт разумное значение по умолчанию для локальной
// разработки.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION STRUCTURES
// ══════════════════════════════════════════════════════════════════════════════

// Config is the root application configuration.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	HTTP        HTTPConfig
	Awards      AwardsConfig
	Leaderboard LeaderboardConfig
	Sync        SyncConfig
	Scheduler   SchedulerConfig
	EventBus    EventBusConfig
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	// Name is the service name used in logs.
	Name string `env:"ORBITA_APP_NAME" envDefault:"progress-hub"`

	// Environment is one of: development, staging, production.
	Environment string `env:"ORBITA_ENVIRONMENT" envDefault:"development"`

	// LogLevel is one of: debug, info, warn, error.
	LogLevel string `env:"ORBITA_LOG_LEVEL" envDefault:"info"`

	// Timezone is the IANA location used for activity ledger dates
	// and monthly leaderboard windows.
	Timezone string `env:"ORBITA_TIMEZONE" envDefault:"UTC"`
}

// DatabaseConfig holds the remote profile store settings.
type DatabaseConfig struct {
	// URL, when set, takes precedence over the individual fields.
	URL string `env:"ORBITA_DATABASE_URL"`

	Host     string `env:"ORBITA_DB_HOST" envDefault:"localhost"`
	Port     int    `env:"ORBITA_DB_PORT" envDefault:"5432"`
	Name     string `env:"ORBITA_DB_NAME" envDefault:"progress_hub"`
	User     string `env:"ORBITA_DB_USER" envDefault:"postgres"`
	Password string `env:"ORBITA_DB_PASSWORD"`
	SSLMode  string `env:"ORBITA_DB_SSLMODE" envDefault:"disable"`

	MaxConns int32 `env:"ORBITA_DB_MAX_CONNS" envDefault:"10"`
	MinConns int32 `env:"ORBITA_DB_MIN_CONNS" envDefault:"2"`

	// RunMigrations applies pending migrations on startup.
	RunMigrations bool `env:"ORBITA_DB_RUN_MIGRATIONS" envDefault:"true"`
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	// Enabled toggles Redis entirely. When false, the hub runs with
	// no board or profile cache; correctness is unaffected.
	Enabled bool `env:"ORBITA_REDIS_ENABLED" envDefault:"true"`

	Host     string `env:"ORBITA_REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"ORBITA_REDIS_PORT" envDefault:"6379"`
	Password string `env:"ORBITA_REDIS_PASSWORD"`
	DB       int    `env:"ORBITA_REDIS_DB" envDefault:"0"`
}

// HTTPConfig holds REST API settings.
type HTTPConfig struct {
	Host string `env:"ORBITA_HTTP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"ORBITA_HTTP_PORT" envDefault:"8080"`

	ReadTimeout  time.Duration `env:"ORBITA_HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"ORBITA_HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"ORBITA_HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	EnableCORS         bool     `env:"ORBITA_HTTP_ENABLE_CORS" envDefault:"true"`
	AllowedOrigins     []string `env:"ORBITA_HTTP_ALLOWED_ORIGINS" envDefault:"*"`
	RateLimitPerMinute int      `env:"ORBITA_HTTP_RATE_LIMIT" envDefault:"100"`
}

// AwardsConfig holds the XP award policy.
// Award sizes are policy, not protocol: operations change them without
// touching the progression engine.
type AwardsConfig struct {
	// LessonXP is the XP granted for a first lesson completion.
	LessonXP int `env:"ORBITA_AWARD_LESSON_XP" envDefault:"200"`

	// LessonStudyMinutes is the study time credited per lesson.
	LessonStudyMinutes int `env:"ORBITA_AWARD_LESSON_MINUTES" envDefault:"30"`

	// WorkshopXP is the XP granted for a first workshop completion.
	WorkshopXP int `env:"ORBITA_AWARD_WORKSHOP_XP" envDefault:"500"`
}

// LeaderboardConfig holds ranking settings.
type LeaderboardConfig struct {
	// FetchCap bounds the population pulled from the profile store when
	// building the leaderboard. The store orders by XP before the cap is
	// applied, so top ranks stay correct. Zero means unbounded.
	FetchCap int `env:"ORBITA_LEADERBOARD_FETCH_CAP" envDefault:"500"`
}

// SyncConfig holds remote profile sync settings.
type SyncConfig struct {
	// Interval between periodic dirty-set drains.
	Interval time.Duration `env:"ORBITA_SYNC_INTERVAL" envDefault:"30s"`
}

// SchedulerConfig holds background job settings.
type SchedulerConfig struct {
	// Enabled toggles the background scheduler.
	Enabled bool `env:"ORBITA_SCHEDULER_ENABLED" envDefault:"true"`

	// LeaderboardRebuildInterval is how often the leaderboard cache is warmed.
	LeaderboardRebuildInterval time.Duration `env:"ORBITA_SCHEDULER_LEADERBOARD_INTERVAL" envDefault:"5m"`

	// FlushInterval is how often pending profile syncs are retried.
	FlushInterval time.Duration `env:"ORBITA_SCHEDULER_FLUSH_INTERVAL" envDefault:"1m"`
}

// EventBusConfig holds in-process event bus settings.
type EventBusConfig struct {
	Async          bool          `env:"ORBITA_EVENTBUS_ASYNC" envDefault:"true"`
	Workers        int           `env:"ORBITA_EVENTBUS_WORKERS" envDefault:"4"`
	QueueSize      int           `env:"ORBITA_EVENTBUS_QUEUE_SIZE" envDefault:"256"`
	HandlerTimeout time.Duration `env:"ORBITA_EVENTBUS_HANDLER_TIMEOUT" envDefault:"5s"`
}

// ══════════════════════════════════════════════════════════════════════════════
// LOADING AND VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	var errs []error

	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("config: unknown environment %q", c.App.Environment))
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: invalid HTTP port %d", c.HTTP.Port))
	}

	if c.Awards.LessonXP < 0 || c.Awards.WorkshopXP < 0 {
		errs = append(errs, errors.New("config: award XP cannot be negative"))
	}
	if c.Awards.LessonStudyMinutes < 0 {
		errs = append(errs, errors.New("config: award study minutes cannot be negative"))
	}

	if c.Leaderboard.FetchCap < 0 {
		errs = append(errs, errors.New("config: leaderboard fetch cap cannot be negative"))
	}

	if c.Sync.Interval <= 0 {
		errs = append(errs, errors.New("config: sync interval must be positive"))
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		errs = append(errs, errors.New("config: database host or URL is required"))
	}

	return errors.Join(errs...)
}

// IsProduction returns true in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

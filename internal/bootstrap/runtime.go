// Package bootstrap selects the storage variant and connects the optional
// Redis client before the HTTP server is built.
package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"socialwall/internal/cache"
	"socialwall/internal/config"
	"socialwall/internal/database"
	"socialwall/internal/middleware"
	"socialwall/internal/models"
	"socialwall/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Database statuses reported before any live probe.
const (
	// StatusMockMode means no database was configured.
	StatusMockMode = "mock-mode"
	// StatusDisconnected means a database server was named but its settings
	// were incomplete or the startup connection failed.
	StatusDisconnected = "disconnected"
	// StatusConnected means the persistent store was selected.
	StatusConnected = "connected"
)

// WelcomePostID is the id of the post seeded into the volatile store.
const WelcomePostID = "mock-001"

// Runtime is the result of startup selection. It is built once and never
// re-probed.
type Runtime struct {
	Store repository.PostStore
	// DB is nil unless the persistent store was selected.
	DB    *gorm.DB
	Redis *redis.Client
	// StartupStatus is StatusConnected, StatusMockMode or StatusDisconnected.
	StartupStatus string
}

// connectDB is replaced in tests.
var connectDB = database.Connect

// WelcomePost returns the example post that seeds the volatile store.
func WelcomePost(region string, now time.Time) *models.Post {
	return &models.Post{
		ID:        WelcomePostID,
		UserID:    "user-001",
		Username:  "demo_user",
		Message:   "Welcome to the Resiliency Workshop! 🎉",
		Timestamp: now.UTC(),
		Region:    region,
	}
}

// SelectStore attempts the persistent store and falls back to a seeded
// volatile store when configuration is missing or the connection fails.
// A connection failure is logged, never returned.
func SelectStore(ctx context.Context, cfg *config.Config) (repository.PostStore, *gorm.DB, string) {
	if !cfg.DatabaseConfigured() {
		if cfg.DatabaseRequested() {
			middleware.Logger.Warn("database settings incomplete, falling back to in-memory storage",
				slog.String("driver", cfg.DBDriver),
			)
			return repository.NewMemoryPostStore(WelcomePost(cfg.Region, time.Now())), nil, StatusDisconnected
		}
		middleware.Logger.Warn("no database configured, running in mock mode")
		return repository.NewMemoryPostStore(WelcomePost(cfg.Region, time.Now())), nil, StatusMockMode
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		middleware.Logger.Warn("failed to connect to database, falling back to in-memory storage",
			slog.String("driver", cfg.DBDriver),
			slog.String("error", err.Error()),
		)
		return repository.NewMemoryPostStore(WelcomePost(cfg.Region, time.Now())), nil, StatusDisconnected
	}

	return repository.NewGormPostStore(db), db, StatusConnected
}

// InitRuntime selects the post store and connects Redis. Neither step is
// fatal: the service always starts.
func InitRuntime(ctx context.Context, cfg *config.Config) *Runtime {
	store, db, status := SelectStore(ctx, cfg)
	return &Runtime{
		Store:         store,
		DB:            db,
		Redis:         cache.Connect(ctx, cfg.RedisURL),
		StartupStatus: status,
	}
}

// Close releases the database pool and the Redis client, if open.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	database.Close(r.DB)
	r.DB = nil
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			middleware.Logger.Warn("error closing redis", slog.String("error", err.Error()))
		}
		r.Redis = nil
	}
}

// Package app boots the shared resources of a staydesk process: config,
// logging, database, cache, blob storage and the job queue.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close()
//
// Commands that only touch the schema use BootDB.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/pkg/cache"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/queue"
	"github.com/staydesk/staydesk/pkg/storage"
)

// Application holds the booted resources.
type Application struct {
	DB   *gorm.DB
	Disk storage.Disk
}

// Boot loads the configuration and connects every backing service. Redis and
// the Mongo log sink are optional: a failure is logged and the process runs
// without them.
func Boot(ctx context.Context) (*Application, error) {
	db, err := BootDB(ctx)
	if err != nil {
		return nil, err
	}

	if err := logger.Setup(); err != nil {
		logger.Warn("logger: mongo sink disabled", "error", err)
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: redis unavailable, using the local tier only", "error", err)
	}
	storage.Connect(ctx)

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.SetMaxRetry(config.QueueMaxRetry())
	queue.UseDB(db)

	return &Application{DB: db, Disk: storage.Default()}, nil
}

// BootDB loads the configuration and opens the database only.
func BootDB(_ context.Context) (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// Close releases the database and flushes the log sink.
func (a *Application) Close() {
	if err := database.Close(); err != nil {
		logger.Warn("database: close", "error", err)
	}
	logger.Close()
}

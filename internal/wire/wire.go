// Package wire provides dependency injection for the fieldbook
// application. It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"log"
	"sync"

	"go.uber.org/zap"

	"github.com/example/fieldbook/internal/adapters/media"
	"github.com/example/fieldbook/internal/adapters/memory"
	"github.com/example/fieldbook/internal/adapters/postgres"
	"github.com/example/fieldbook/internal/adapters/sqlite"
	"github.com/example/fieldbook/internal/app"
	"github.com/example/fieldbook/internal/config"
	"github.com/example/fieldbook/internal/db"
	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/ports/secondary"
)

var (
	cfg              *config.Config
	logger           *zap.Logger
	recordStore      secondary.RecordStore
	mediaStore       secondary.MediaStore
	sessionService   primary.SessionService
	directoryService primary.DirectoryService
	once             sync.Once
)

// SessionService returns the singleton SessionService instance.
func SessionService() primary.SessionService {
	once.Do(initServices)
	return sessionService
}

// DirectoryService returns the singleton DirectoryService instance.
func DirectoryService() primary.DirectoryService {
	once.Do(initServices)
	return directoryService
}

// RecordStore returns the singleton record store adapter.
func RecordStore() secondary.RecordStore {
	once.Do(initServices)
	return recordStore
}

// Logger returns the singleton zap logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// Cfg returns the loaded configuration.
func Cfg() *config.Config {
	once.Do(initServices)
	return cfg
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	ctx := context.Background()

	// Create storage adapters (secondary ports)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.Store.DSN)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		recordStore = postgres.NewRecordStore(pool)
	case config.StoreMemory:
		recordStore = memory.NewRecordStore()
	case config.StoreSQLite, "":
		database, err := db.GetDB(cfg.Store.Path)
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		recordStore = sqlite.NewRecordStore(database)
	default:
		log.Fatalf("unknown store driver %q", cfg.Store.Driver)
	}

	mediaStore, err = media.Open(ctx, media.Options{
		Driver:    cfg.Media.Driver,
		Root:      cfg.Media.Root,
		Bucket:    cfg.Media.Bucket,
		Region:    cfg.Media.Region,
		Endpoint:  cfg.Media.Endpoint,
		PathStyle: cfg.Media.PathStyle,
		Prefix:    cfg.Media.Prefix,
	})
	if err != nil {
		log.Fatalf("failed to open media store: %v", err)
	}

	// Create services (primary ports implementation)
	directoryService = app.NewDirectoryService(recordStore, logger)
	sessionService = app.NewSessionService(recordStore, mediaStore, logger)
}

// Package bootstrap builds the pieces shared by the api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"datalayer/internal/config"
	"datalayer/internal/database"
	"datalayer/internal/datalayer"
	"datalayer/internal/dedup"
	"datalayer/internal/logger"
	"datalayer/internal/triggers"
)

const (
	redisKeyPrefix = "datalayer:"
	purgeInterval  = 10 * time.Minute
)

// MarkerStore opens the server marker backend selected by MARKER_STORE. The
// returned close func releases it. SQL stores purge expired markers until
// ctx is done.
func MarkerStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (dedup.KeyValueStore, func() error, error) {
	switch cfg.MarkerStore {
	case config.MarkerStoreRedis:
		store, err := dedup.NewRedisStoreFromURL(cfg.RedisURL, redisKeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis marker store: %w", err)
		}
		log.Info("Using redis marker store")
		return store, store.Close, nil

	case config.MarkerStoreSQL:
		db, err := database.New(cfg.DatabaseURL, log, cfg.LogLevel == "debug")
		if err != nil {
			return nil, nil, err
		}
		go db.RunPurge(ctx, purgeInterval)
		return db.Markers(), db.Close, nil

	default:
		log.Info("Using in-memory marker store")
		return dedup.NewMemoryStore(), func() error { return nil }, nil
	}
}

// Dispatcher returns a dispatcher with the storefront triggers registered.
func Dispatcher(cfg *config.Config, log *logger.Logger) *triggers.Dispatcher {
	d := triggers.NewDispatcher(log)
	triggers.RegisterDefaults(d,
		datalayer.NewBuilder(cfg.HomeURL, cfg.Currency),
		dedup.NewGuard(log),
	)
	return d
}

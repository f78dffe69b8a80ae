package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"datalayer/internal/dedup"
	"datalayer/internal/logger"
	"datalayer/internal/models"
)

const sqlitePrefix = "sqlite://"

type Database struct {
	DB     *gorm.DB
	logger *logger.Logger
}

// New opens databaseURL and migrates the marker table. A sqlite:// prefix
// selects SQLite, anything else is handed to the Postgres driver.
func New(databaseURL string, log *logger.Logger, debug bool) (*Database, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, sqlitePrefix) {
		// SQLite for development
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, sqlitePrefix))
	} else {
		// PostgreSQL for production
		dialector = postgres.Open(databaseURL)
	}

	logMode := gormlogger.Warn
	if debug {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Marker{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	log.Info("Database ready (%s)", db.Dialector.Name())
	return &Database{DB: db, logger: log}, nil
}

// Markers returns the marker store backed by this database.
func (d *Database) Markers() *dedup.SQLStore {
	return dedup.NewSQLStore(d.DB)
}

// RunPurge deletes expired markers every interval until ctx is done.
func (d *Database) RunPurge(ctx context.Context, interval time.Duration) {
	store := d.Markers()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil {
				d.logger.Error("Marker purge failed: %v", err)
				continue
			}
			if n > 0 {
				d.logger.Debug("Purged %d expired markers", n)
			}
		}
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

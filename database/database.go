// Package database wraps GORM with connection management, structured
// logging and transaction helpers used by the store layer.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
)

// DB wraps a gorm.DB connection together with its configuration.
type DB struct {
	gorm *gorm.DB
	cfg  Config
	log  *logger.Logger
}

// New opens a database connection with retries and configures the pool.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("database")

	slowThreshold, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(log, cfg.LogLevel, slowThreshold),
		TranslateError: true,
	}

	var (
		conn *gorm.DB
		err  error
	)
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		conn, err = gorm.Open(dialector(cfg), gormCfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed, retrying", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			return nil, errors.DatabaseError(fmt.Errorf("connect: %w", ctx.Err()))
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	if err != nil {
		return nil, errors.DatabaseError(fmt.Errorf("connect: %w", err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, errors.DatabaseError(fmt.Errorf("pool: %w", err))
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if lifetime, perr := time.ParseDuration(cfg.ConnMaxLifetime); perr == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.DatabaseError(fmt.Errorf("ping: %w", err))
	}

	log.Info("database connected", map[string]interface{}{"driver": cfg.Driver})
	return &DB{gorm: conn, cfg: cfg, log: log}, nil
}

func dialector(cfg Config) gorm.Dialector {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.DSN)
	default:
		return postgres.Open(cfg.DSN)
	}
}

// Gorm exposes the underlying gorm.DB for the store layer.
func (db *DB) Gorm() *gorm.DB {
	return db.gorm
}

// WithContext returns a gorm.DB scoped to the given context.
func (db *DB) WithContext(ctx context.Context) *gorm.DB {
	return db.gorm.WithContext(ctx)
}

// AutoMigrate creates or updates the schema for the given models.
func (db *DB) AutoMigrate(models ...interface{}) error {
	if !db.cfg.AutoMigrate {
		db.log.Debug("auto-migration disabled, skipping")
		return nil
	}
	if err := db.gorm.AutoMigrate(models...); err != nil {
		return errors.DatabaseError(fmt.Errorf("migrate: %w", err))
	}
	db.log.Info("auto-migration complete", map[string]interface{}{"models": len(models)})
	return nil
}

// Transaction runs fn inside a transaction, rolling back on error.
func (db *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.gorm.WithContext(ctx).Transaction(fn)
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return errors.DatabaseError(fmt.Errorf("ping: %w", err))
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.DatabaseError(fmt.Errorf("ping: %w", err))
	}
	return nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return fmt.Errorf("acquire sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Package db opens the gorm connection and brings the schema up to date.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/invoice-builder/internal/config"
	"github.com/diewo77/invoice-builder/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// ErrUnknownDriver is returned for a DB_DRIVER other than postgres or sqlite.
var ErrUnknownDriver = errors.New("db: unknown driver")

// Connect opens the configured store. Postgres is retried while the server comes up.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	gcfg := gormConfig(cfg.Debug)
	switch cfg.Driver {
	case "sqlite":
		dsn := SQLiteDSN(cfg.SQLitePath)
		if cfg.RawDSN != "" {
			dsn = SQLiteDSN(cfg.RawDSN)
		}
		log.Info("opening sqlite", "dsn", dsn)
		return OpenSQLite(dsn, cfg.Debug)
	case "postgres", "":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	dsn := NormalizeDSN(cfg.DSN())
	log.Info("connecting to database", "dsn", MaskDSN(dsn))
	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < connectAttempts; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.Warn("retrying db connection", "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if err := Ping(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// OpenSQLite opens a sqlite database. The connection pool is limited to one
// connection so in-memory databases behave like a single file.
func OpenSQLite(dsn string, debug bool) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

func gormConfig(debug bool) *gorm.Config {
	level := gormlogger.Silent
	if debug {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

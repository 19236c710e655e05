// Package db opens the database and keeps its schema current.
package db

import (
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/lens-console/internal/config"
)

var passwordPattern = regexp.MustCompile(`(password=)(\S+)`)

// MaskDSN hides the password of a key=value DSN.
func MaskDSN(dsn string) string {
	return passwordPattern.ReplaceAllString(dsn, `${1}***`)
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "postgres":
		dsn := cfg.DSN()
		return postgres.Open(dsn), MaskDSN(dsn), nil
	case "sqlite", "":
		return sqlite.Open(cfg.SQLitePath), cfg.SQLitePath, nil
	default:
		return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// GormConfig is shared by the server and tests. Unique index violations
// surface as gorm.ErrDuplicatedKey.
func GormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect opens the configured database, retrying while it starts up.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dial, target, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}

	var conn *gorm.DB
	for i := 0; i < retries; i++ {
		conn, err = gorm.Open(dial, GormConfig(cfg.Debug))
		if err == nil {
			err = conn.Exec("SELECT 1").Error
		}
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying",
			zap.Int("attempt", i+1), zap.Int("of", retries), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.Driver), zap.String("dsn", target))
	return conn, nil
}

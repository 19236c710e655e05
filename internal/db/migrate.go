package db

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/diewo77/lens-console/internal/config"
	"github.com/diewo77/lens-console/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Models lists every table the application owns.
func Models() []any {
	return []any{
		&models.Order{},
		&models.Seller{},
		&models.NotificationContact{},
		&models.MonthlyMetrics{},
		&models.Document{},
	}
}

// Migrate brings the schema up to date. Postgres with MIGRATIONS=1 runs the
// embedded SQL migrations; everything else uses AutoMigrate.
func Migrate(conn *gorm.DB, cfg config.DatabaseConfig) error {
	if cfg.Migrations && cfg.Driver == "postgres" {
		return runSQLMigrations(cfg.URL())
	}
	return AutoMigrate(conn)
}

// AutoMigrate creates or alters the tables from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range Models() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(url string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

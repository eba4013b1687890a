package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/invoice-builder/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// registers the postgres database driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Tables that must exist once the schema is in place.
var requiredTables = []string{"customers", "senders", "invoices", "line_items"}

// Migrate brings the schema up to date. With sqlMigrations the embedded SQL files
// are applied through golang-migrate (postgres only); otherwise gorm AutoMigrate is used.
func Migrate(conn *gorm.DB, sqlMigrations bool, databaseURL string) error {
	if sqlMigrations && conn.Dialector.Name() == "postgres" {
		if err := RunSQLMigrations(databaseURL); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return err
		}
	}
	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or alters tables from the gorm models. Invoice goes before
// LineItem so the cascading foreign key is created with the line_items table.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []any{&models.Customer{}, &models.Sender{}, &models.Invoice{}, &models.LineItem{}} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations applies the embedded migrations to the database at url.
func RunSQLMigrations(url string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, ToURLDSN(NormalizeDSN(url)))
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

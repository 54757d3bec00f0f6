// Package migrations holds the journal schema and applies it.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

const migrationsTable = "journal_schema_migrations"

//go:embed *.sql
var files embed.FS

// Migrate brings the journal schema in db up to date and returns the
// resulting schema version.
func Migrate(db *sql.DB, log *zap.SugaredLogger) (uint, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return 0, fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		return 0, fmt.Errorf("create migration source: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("journal schema up to date")
	case err != nil:
		return 0, fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}

	log.Infow("journal schema ready", "version", version)
	return version, nil
}

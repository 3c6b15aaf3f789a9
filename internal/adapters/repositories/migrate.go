package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"visit-route-service/internal/adapters/repositories/migrations"
)

// Migrate brings the database schema up to date using the embedded goose
// migrations. Safe to run on every startup; applied migrations are skipped.
func Migrate(db *sql.DB) error {
	if db == nil {
		return errors.New("migrate: DB is nil")
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migrate: apply migrations: %w", err)
	}

	return nil
}

package db

import (
	"context"
	"database/sql"
	"embed"
	"log"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate brings the schema up to date using the embedded migrations.
func Migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}

	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Println("database migration check complete. All migrations are up to date")
	return nil
}

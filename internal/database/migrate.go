// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed schema/*.sql
var migrations embed.FS

// Migrate applies every pending migration and returns the resulting schema version.
func Migrate(db *sql.DB, dialect Dialect) (int64, error) {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return 0, fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "schema"); err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to get DB version: %w", err)
	}

	return version, nil
}

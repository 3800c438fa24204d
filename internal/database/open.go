// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the embedded database at path with WAL
// journaling. SQLite allows one writer, so the pool is capped at one connection.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

func OpenPostgres(user, password, host, name string) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%v:%v@%v:5432/%v?sslmode=disable", user, password, host, name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the DB: %w", err)
	}
	return db, nil
}

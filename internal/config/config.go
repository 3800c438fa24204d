// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/joho/godotenv"
)

const AppVersion = "v1.0.0"

type AppConfig struct {
	Port            string
	DBPath          string
	PostgresDB      string
	PostgresUser    string
	PostgresPass    string
	PostgresHost    string
	SessionSecret   []byte
	SecureCookies   bool
	CorsOrigins     []string
	Location        *time.Location
	PublishSchedule string
	MediaMaxDim     int
	GinMode         string
}

// LoadConfig reads the environment, after loading a .env file when one exists.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	cfg := &AppConfig{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/postdeck.db"),
		PostgresDB:      os.Getenv("POSTGRES_DB"),
		PostgresUser:    os.Getenv("POSTGRES_USER"),
		PostgresPass:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresHost:    getEnv("POSTGRES_HOST", "db"),
		SecureCookies:   getEnv("SECURE_COOKIES", "false") == "true",
		PublishSchedule: getEnv("PUBLISH_SCHEDULE", "@every 1m"),
		GinMode:         getEnv("GIN_MODE", "release"),
	}

	secret := os.Getenv("SESSION_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be set to at least 32 characters")
	}
	cfg.SessionSecret = []byte(secret)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CorsOrigins = append(cfg.CorsOrigins, o)
			}
		}
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	maxDim, err := strconv.Atoi(getEnv("MEDIA_MAX_DIM", "1080"))
	if err != nil || maxDim <= 0 {
		return nil, fmt.Errorf("invalid MEDIA_MAX_DIM: %q", os.Getenv("MEDIA_MAX_DIM"))
	}
	cfg.MediaMaxDim = maxDim

	return cfg, nil
}

func (c *AppConfig) UsePostgres() bool {
	return c.PostgresDB != "" && c.PostgresUser != "" && c.PostgresPass != ""
}

func (c *AppConfig) Dialect() database.Dialect {
	if c.UsePostgres() {
		return database.DialectPostgres
	}
	return database.DialectSQLite
}

// LoadDatabase opens the configured store and brings its schema up to date.
// The caller owns the returned handle and must close it on shutdown.
func LoadDatabase(cfg *AppConfig) (*sql.DB, *database.Queries, error) {
	var (
		db  *sql.DB
		err error
	)

	if cfg.UsePostgres() {
		db, err = database.OpenPostgres(cfg.PostgresUser, cfg.PostgresPass, cfg.PostgresHost, cfg.PostgresDB)
	} else {
		db, err = database.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		return nil, nil, err
	}

	version, err := database.Migrate(db, cfg.Dialect())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Printf("Migrations applied successfully. Current DB version: %d", version)

	return db, database.New(db).WithDialect(cfg.Dialect()), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Package database owns the PostgreSQL pool and the embedded schema
// migrations. Connect applies the pool bounds from configuration;
// Migrate brings the schema up to date with goose at startup.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationFS embed.FS

// pingTimeout bounds the startup connectivity check so a wrong DSN
// fails fast instead of hanging the boot sequence.
const pingTimeout = 5 * time.Second

// Pool bounds the connection pool. Zero values leave the driver
// defaults in place.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Connect opens a pgx-backed pool for the given DSN, applies the pool
// bounds, and verifies connectivity before handing the pool back.
func Connect(dsn string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	slog.Info("postgres connected",
		"max_open", pool.MaxOpen,
		"max_idle", pool.MaxIdle,
	)
	return db, nil
}

// Migrate applies any pending migrations from the embedded SQL files
// and logs the schema version the database ends up at.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("select migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("schema up to date", "version", version)
	return nil
}

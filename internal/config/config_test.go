package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.Env != "development" {
		t.Errorf("env: got %q, want %q", cfg.Env, "development")
	}
	if cfg.FeedPageSize != 6 {
		t.Errorf("feed page size: got %d, want 6", cfg.FeedPageSize)
	}
	if cfg.FallbackAuthor == "" {
		t.Error("expected a fallback author name")
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev() true for default env")
	}
}

func TestLoadProductionRequiresPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for default password in production")
	}
}

func TestLoadRejectsZeroPageSize(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for FEED_PAGE_SIZE=0")
	}
}

func TestDSN(t *testing.T) {
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "name")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := "postgres://u:p@db:5433/name?sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
}

func TestLoadPoolSettings(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "20")
	t.Setenv("POSTGRES_CONN_LIFETIME", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("max conns: got %d, want 20", cfg.DBMaxConns)
	}
	if cfg.DBConnLifetime != 5*time.Minute {
		t.Errorf("conn lifetime: got %v, want 5m", cfg.DBConnLifetime)
	}
	if cfg.DBIdleConns != 5 {
		t.Errorf("idle conns default: got %d, want 5", cfg.DBIdleConns)
	}
}

func TestLoadPoolLifetimeFallback(t *testing.T) {
	t.Setenv("POSTGRES_CONN_LIFETIME", "half an hour")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBConnLifetime != 30*time.Minute {
		t.Errorf("unparseable lifetime should fall back: got %v", cfg.DBConnLifetime)
	}
}

func TestEnvOrDefaultInt(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedPageSize != 6 {
		t.Errorf("unparseable value should fall back: got %d, want 6", cfg.FeedPageSize)
	}
}

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// member account and a published welcome post. It is a no-op when any
// users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "dev@csxhub.local", string(hash), "Dev Member").Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (slug, title, summary, body, body_html, format, tags, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, $4, 'html', $5, 'published', $6, NOW())
	`, "welcome-to-csxhub", "Welcome to CSX Hub",
		"A first post to verify the feed works end to end.",
		"<p>Write something great.</p>",
		"{welcome}", userID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with default member",
		"email", "dev@csxhub.local",
		"password", "changeme1",
	)

	return nil
}

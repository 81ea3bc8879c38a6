package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"csxhub/internal/models"
)

// ProfileStore handles member-profile database operations. A profile row
// may not exist for every user; callers treat a nil result as "use the
// account's defaults".
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, user_id, username, mobile, github, on_whatsapp,
       coding_level, bio, avatar_url, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Username, &p.Mobile, &p.GitHub, &p.OnWhatsApp,
		&p.CodingLevel, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUserID retrieves the profile for a user. Returns nil if the user
// has never saved one.
func (s *ProfileStore) FindByUserID(userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(`
		SELECT `+profileColumns+` FROM profiles WHERE user_id = $1
	`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by user: %w", err)
	}
	return p, nil
}

// Save upserts a user's profile keyed by user_id and returns the stored row.
func (s *ProfileStore) Save(p *models.Profile) (*models.Profile, error) {
	result, err := scanProfile(s.db.QueryRow(`
		INSERT INTO profiles (user_id, username, mobile, github, on_whatsapp, coding_level, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			mobile = EXCLUDED.mobile,
			github = EXCLUDED.github,
			on_whatsapp = EXCLUDED.on_whatsapp,
			coding_level = EXCLUDED.coding_level,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING `+profileColumns+`
	`, p.UserID, p.Username, p.Mobile, p.GitHub, p.OnWhatsApp, p.CodingLevel, p.Bio, p.AvatarURL))
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return result, nil
}

// Delete removes a user's profile.
func (s *ProfileStore) Delete(userID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

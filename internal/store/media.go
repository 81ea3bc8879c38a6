package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"csxhub/internal/models"
)

// MediaStore handles upload-metadata database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, original_name, content_type, size_bytes,
       storage_key, thumb_key, uploader_id, created_at`

func scanMedia(row interface{ Scan(...any) error }) (*models.Media, error) {
	m := &models.Media{}
	err := row.Scan(
		&m.ID, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.StorageKey, &m.ThumbKey, &m.UploaderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create records a completed upload and returns the stored row.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	result, err := scanMedia(s.db.QueryRow(`
		INSERT INTO media (original_name, content_type, size_bytes, storage_key, thumb_key, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+mediaColumns+`
	`, m.OriginalName, m.ContentType, m.SizeBytes, m.StorageKey, m.ThumbKey, m.UploaderID))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return result, nil
}

// FindByID retrieves an upload record. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`
		SELECT `+mediaColumns+` FROM media WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// ListByUploader returns a window of a member's uploads, newest first.
func (s *MediaStore) ListByUploader(uploaderID uuid.UUID, limit, offset int) ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+` FROM media
		WHERE uploader_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, uploaderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes an upload record by ID.
func (s *MediaStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

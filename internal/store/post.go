package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"csxhub/internal/models"
)

// PostStore handles all blog-post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, slug, title, summary, body, body_html, format,
       cover_image_url, tags, status, upvotes, author_id,
       published_at, created_at, updated_at`

// scanPost reads one post row from any row scanner.
func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Summary, &p.Body, &p.BodyHTML, &p.Format,
		&p.CoverImageURL, pq.Array(&p.Tags), &p.Status, &p.Upvotes, &p.AuthorID,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns a window of published posts ordered by published
// date descending. This is the query behind the public feed: the caller
// passes limit = pageSize and offset = pageIndex * pageSize.
func (s *PostStore) ListPublished(limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListByAuthor returns a window of an author's posts (any status),
// newest first. Used for the member's own post listing.
func (s *PostStore) ListByAuthor(authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by its UUID regardless of status.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a published post by its slug. Used for the public
// post detail view. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts WHERE slug = $1 AND status = 'published'
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether any post already uses the given slug.
func (s *PostStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	// If publishing, set the published_at timestamp.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	result, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (slug, title, summary, body, body_html, format,
		                   cover_image_url, tags, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+postColumns+`
	`, p.Slug, p.Title, p.Summary, p.Body, p.BodyHTML, p.Format,
		p.CoverImageURL, pq.Array(p.Tags), p.Status, p.AuthorID, p.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post.
func (s *PostStore) Update(p *models.Post) error {
	// If transitioning to published and no published_at set, set it now.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, summary = $2, body = $3, body_html = $4, format = $5,
			cover_image_url = $6, tags = $7, status = $8, published_at = $9,
			updated_at = NOW()
		WHERE id = $10
	`, p.Title, p.Summary, p.Body, p.BodyHTML, p.Format,
		p.CoverImageURL, pq.Array(p.Tags), p.Status, p.PublishedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Upvote increments a post's upvote counter and returns the new total.
func (s *PostStore) Upvote(id uuid.UUID) (int, error) {
	var upvotes int
	err := s.db.QueryRow(`
		UPDATE posts SET upvotes = upvotes + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING upvotes
	`, id).Scan(&upvotes)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("upvote post: not found")
	}
	if err != nil {
		return 0, fmt.Errorf("upvote post: %w", err)
	}
	return upvotes, nil
}

// CountPublished returns the number of published posts.
func (s *PostStore) CountPublished() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

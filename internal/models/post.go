package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusPrivate   PostStatus = "private"
	PostStatusPublished PostStatus = "published"
)

// BodyFormat indicates how a post body was authored. Rich-editor posts
// arrive as HTML; markdown posts are rendered to HTML on save.
type BodyFormat string

const (
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatMarkdown BodyFormat = "markdown"
)

// Post represents a blog post in the community site. The body is stored
// exactly as submitted; BodyHTML holds the rendered form when the source
// format is markdown, and equals Body otherwise.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Summary       *string    `json:"summary,omitempty"`
	Body          string     `json:"body"`
	BodyHTML      string     `json:"body_html"`
	Format        BodyFormat `json:"format"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Status        PostStatus `json:"status"`
	Upvotes       int        `json:"upvotes"`
	AuthorID      uuid.UUID  `json:"author_id"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is publicly visible.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

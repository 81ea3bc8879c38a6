// Package feed implements the windowed listing logic behind the blog
// feed: request-window math, the "has more" heuristic, and the single
// projection from a stored post to the shape list views consume. The
// same code drives the server's /api/blogs responses and the client
// SDK's accumulating pager.
package feed

import (
	"fmt"
	"time"

	"csxhub/internal/models"
)

// Window converts a zero-based page index and page size into the
// limit/offset pair sent to the post store.
func Window(pageIndex, pageSize int) (limit, offset int, err error) {
	if pageIndex < 0 {
		return 0, 0, fmt.Errorf("feed: page index %d out of range", pageIndex)
	}
	if pageSize < 1 {
		return 0, 0, fmt.Errorf("feed: page size %d out of range", pageSize)
	}
	return pageSize, pageIndex * pageSize, nil
}

// HasMore reports whether another page may exist after a fetch that
// returned pageLen records for a requested pageSize. This is a
// heuristic, not an authoritative count: when the collection size is an
// exact multiple of the page size, one extra fetch returns an empty
// page, which callers must tolerate (it cleanly resolves to false).
func HasMore(pageLen, pageSize int) bool {
	return pageLen == pageSize
}

// Author is the display shape of a post's author.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// PostView is the display projection of a post consumed by list and
// detail views. Fields absent on the stored record stay absent here;
// only the author name is ever defaulted.
type PostView struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Upvotes     int        `json:"upvotes"`
	Author      *Author    `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Project maps a stored post and its (possibly missing) author record to
// the display shape. The author name falls back to fallbackName when the
// record carries none; every other absent field stays absent.
func Project(p *models.Post, author *models.User, fallbackName string) PostView {
	v := PostView{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Title:       p.Title,
		BodyHTML:    p.BodyHTML,
		Tags:        p.Tags,
		Upvotes:     p.Upvotes,
		PublishedAt: p.PublishedAt,
	}
	if p.Summary != nil {
		v.Summary = *p.Summary
	}
	if p.CoverImageURL != nil {
		v.CoverImage = *p.CoverImageURL
	}

	a := Author{Name: fallbackName}
	if author != nil {
		if author.DisplayName != "" {
			a.Name = author.DisplayName
		}
		if author.AvatarURL != nil {
			a.Avatar = *author.AvatarURL
		}
	}
	v.Author = &a

	return v
}

package client

import (
	"context"
	"fmt"
	"net/http"

	"csxhub/feed"
)

// Posts returns an accumulating pager over the published feed. Each
// LoadMore fetches the next window; Close the pager when the consuming
// view goes away so late responses are discarded.
func (c *Client) Posts(pageSize int) *feed.Pager[feed.PostView] {
	source := func(ctx context.Context, limit, offset int) ([]feed.PostView, error) {
		page := 0
		if limit > 0 {
			page = offset / limit
		}
		var resp struct {
			Posts []feed.PostView `json:"posts"`
		}
		path := fmt.Sprintf("/api/blogs?page=%d&limit=%d", page, limit)
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		return resp.Posts, nil
	}
	return feed.NewPager(source, pageSize)
}

type postEnvelope struct {
	Post *feed.PostView `json:"post"`
}

// Post fetches one published post by slug.
func (c *Client) Post(ctx context.Context, slug string) (*feed.PostView, error) {
	var resp postEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/blogs/"+slug, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Post, nil
}

// PostParams are the inputs for creating or updating a post. Status
// defaults to private and Format to html when left empty.
type PostParams struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary,omitempty"`
	Body       string   `json:"body"`
	Format     string   `json:"format,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Status     string   `json:"status,omitempty"`
}

// createdPost is the server's shape for a stored post, which carries
// more fields than the feed projection.
type createdPost struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// CreatePost creates a post owned by the signed-in member and returns
// its ID and server-assigned slug.
func (c *Client) CreatePost(ctx context.Context, params PostParams) (id, slug string, err error) {
	var resp struct {
		Post createdPost `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/blogs", params, &resp); err != nil {
		return "", "", err
	}
	return resp.Post.ID, resp.Post.Slug, nil
}

// UpdatePost replaces a post's content. Only the author may update.
func (c *Client) UpdatePost(ctx context.Context, id string, params PostParams) error {
	return c.do(ctx, http.MethodPut, "/api/blogs/"+id, params, nil)
}

// DeletePost removes a post. Only the author may delete.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/blogs/"+id, nil, nil)
}

// Upvote increments a post's upvote counter and returns the new total.
func (c *Client) Upvote(ctx context.Context, id string) (int, error) {
	var resp struct {
		Upvotes int `json:"upvotes"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/blogs/"+id+"/upvote", struct{}{}, &resp); err != nil {
		return 0, err
	}
	return resp.Upvotes, nil
}

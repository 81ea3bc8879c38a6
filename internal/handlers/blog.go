package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"csxhub/feed"
	"csxhub/internal/cache"
	"csxhub/internal/markdown"
	"csxhub/internal/middleware"
	"csxhub/internal/models"
	"csxhub/internal/slug"
	"csxhub/internal/store"
)

// maxPageSize caps the limit query parameter so a single request cannot
// drag an unbounded window out of the database.
const maxPageSize = 50

// Blog groups the blog-post endpoints: the public paginated feed, post
// detail, and the authenticated CRUD operations.
type Blog struct {
	postStore      *store.PostStore
	userStore      *store.UserStore
	feedCache      *cache.FeedCache
	pageSize       int
	fallbackAuthor string
}

// NewBlog creates a new Blog handler group. pageSize is the default feed
// window; fallbackAuthor names posts whose author record is gone.
func NewBlog(postStore *store.PostStore, userStore *store.UserStore, feedCache *cache.FeedCache, pageSize int, fallbackAuthor string) *Blog {
	return &Blog{
		postStore:      postStore,
		userStore:      userStore,
		feedCache:      feedCache,
		pageSize:       pageSize,
		fallbackAuthor: fallbackAuthor,
	}
}

// feedResponse is the JSON shape of a feed page.
type feedResponse struct {
	Posts   []feed.PostView `json:"posts"`
	Page    int             `json:"page"`
	HasMore bool            `json:"has_more"`
}

// List serves one window of the published feed, newest first.
// Query parameters: page (zero-based, default 0) and limit (default from
// config, capped). Responses are cached; any post mutation clears the
// cache wholesale since an insertion shifts every later window.
func (b *Blog) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", b.pageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	pageLimit, offset, err := feed.Window(page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page or limit")
		return
	}

	cacheKey := cache.PageKey(page, pageLimit)
	if body, ok := b.feedCache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	posts, err := b.postStore.ListPublished(pageLimit, offset)
	if err != nil {
		writeServerError(w, "feed query failed", err)
		return
	}

	resp := feedResponse{
		Posts:   b.project(posts),
		Page:    page,
		HasMore: feed.HasMore(len(posts), pageLimit),
	}

	body, err := json.Marshal(resp)
	if err != nil {
		writeServerError(w, "feed encode failed", err)
		return
	}
	b.feedCache.Set(r.Context(), cacheKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// project maps stored posts to their display shape, resolving authors
// once per distinct ID.
func (b *Blog) project(posts []models.Post) []feed.PostView {
	authors := make(map[uuid.UUID]*models.User)
	views := make([]feed.PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		author, ok := authors[p.AuthorID]
		if !ok {
			var err error
			author, err = b.userStore.FindByID(p.AuthorID)
			if err != nil {
				// A failed lookup degrades this author's posts to the
				// fallback name instead of failing the feed.
				slog.Warn("feed author lookup failed", "author_id", p.AuthorID, "error", err)
			}
			authors[p.AuthorID] = author
		}
		views = append(views, feed.Project(p, author, b.fallbackAuthor))
	}
	return views
}

// Get serves a single published post by slug.
func (b *Blog) Get(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	cacheKey := cache.PostKey(slugParam)
	if body, ok := b.feedCache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	post, err := b.postStore.FindBySlug(slugParam)
	if err != nil {
		writeServerError(w, "post lookup failed", err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	author, _ := b.userStore.FindByID(post.AuthorID)
	view := feed.Project(post, author, b.fallbackAuthor)

	body, err := json.Marshal(map[string]any{"post": view})
	if err != nil {
		writeServerError(w, "post encode failed", err)
		return
	}
	b.feedCache.Set(r.Context(), cacheKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Mine lists the caller's own posts, any status, newest first.
func (b *Blog) Mine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", b.pageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	pageLimit, offset, err := feed.Window(page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page or limit")
		return
	}

	posts, err := b.postStore.ListByAuthor(sess.UserID, pageLimit, offset)
	if err != nil {
		writeServerError(w, "own posts query failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":    posts,
		"page":     page,
		"has_more": feed.HasMore(len(posts), pageLimit),
	})
}

type postRequest struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary,omitempty"`
	Body       string   `json:"body"`
	Format     string   `json:"format,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Status     string   `json:"status,omitempty"`
}

// Create adds a new post owned by the caller. The slug is derived from
// the title server-side; markdown bodies are rendered to HTML on save.
// New posts default to private until explicitly published.
func (b *Blog) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if msg := validatePost(req.Title, req.Body, req.Tags); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validateSummary(req.Summary); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	post := &models.Post{
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Tags:     req.Tags,
		Status:   models.PostStatusPrivate,
		AuthorID: sess.UserID,
	}
	if req.Summary != "" {
		post.Summary = &req.Summary
	}
	if req.CoverImage != "" {
		post.CoverImageURL = &req.CoverImage
	}

	status, ok := parseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Status must be private or published.")
		return
	}
	post.Status = status

	format, ok := parseFormat(req.Format)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Format must be html or markdown.")
		return
	}
	post.Format = format
	if err := b.renderBody(post); err != nil {
		writeServerError(w, "body render failed", err)
		return
	}

	postSlug, err := b.uniqueSlug(post.Title)
	if err != nil {
		writeServerError(w, "slug generation failed", err)
		return
	}
	post.Slug = postSlug

	created, err := b.postStore.Create(post)
	if err != nil {
		writeServerError(w, "post create failed", err)
		return
	}

	b.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"post": created})
}

// Update modifies a post. Only the author may edit; the slug is stable
// across title edits so published URLs never break.
func (b *Blog) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := b.ownedPost(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if msg := validatePost(req.Title, req.Body, req.Tags); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validateSummary(req.Summary); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	status, ok := parseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Status must be private or published.")
		return
	}
	format, ok := parseFormat(req.Format)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Format must be html or markdown.")
		return
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Body = req.Body
	post.Format = format
	post.Tags = req.Tags
	post.Status = status
	post.Summary = nil
	if req.Summary != "" {
		post.Summary = &req.Summary
	}
	post.CoverImageURL = nil
	if req.CoverImage != "" {
		post.CoverImageURL = &req.CoverImage
	}

	if err := b.renderBody(post); err != nil {
		writeServerError(w, "body render failed", err)
		return
	}

	if err := b.postStore.Update(post); err != nil {
		writeServerError(w, "post update failed", err)
		return
	}

	b.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// Delete removes a post. Only the author may delete.
func (b *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := b.ownedPost(w, r)
	if !ok {
		return
	}

	if err := b.postStore.Delete(post.ID); err != nil {
		writeServerError(w, "post delete failed", err)
		return
	}

	b.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Upvote increments a post's upvote counter and returns the new total.
func (b *Blog) Upvote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := b.postStore.FindByID(id)
	if err != nil {
		writeServerError(w, "post lookup failed", err)
		return
	}
	if post == nil || !post.IsPublished() {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	upvotes, err := b.postStore.Upvote(id)
	if err != nil {
		writeServerError(w, "upvote failed", err)
		return
	}

	b.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"upvotes": upvotes})
}

// ownedPost loads the post addressed by the id URL parameter and checks
// the caller owns it. Writes the error response itself on failure.
func (b *Blog) ownedPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return nil, false
	}

	post, err := b.postStore.FindByID(id)
	if err != nil {
		writeServerError(w, "post lookup failed", err)
		return nil, false
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	if post.AuthorID != sess.UserID {
		writeError(w, http.StatusForbidden, "you do not own this post")
		return nil, false
	}
	return post, true
}

// renderBody fills BodyHTML from Body according to the post's format.
func (b *Blog) renderBody(post *models.Post) error {
	if post.Format == models.BodyFormatMarkdown {
		html, err := markdown.ToHTML(post.Body)
		if err != nil {
			return err
		}
		post.BodyHTML = html
		return nil
	}
	post.BodyHTML = post.Body
	return nil
}

// uniqueSlug derives a slug from the title, appending a short random
// suffix when the plain form is taken.
func (b *Blog) uniqueSlug(title string) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "post"
	}

	taken, err := b.postStore.SlugExists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return slug.WithSuffix(base, uuid.NewString()[:8]), nil
}

// parseStatus maps the request status field to the enum, defaulting to
// private when empty.
func parseStatus(s string) (models.PostStatus, bool) {
	switch models.PostStatus(s) {
	case "":
		return models.PostStatusPrivate, true
	case models.PostStatusPrivate:
		return models.PostStatusPrivate, true
	case models.PostStatusPublished:
		return models.PostStatusPublished, true
	}
	return "", false
}

// parseFormat maps the request format field to the enum, defaulting to
// html when empty.
func parseFormat(s string) (models.BodyFormat, bool) {
	switch models.BodyFormat(s) {
	case "":
		return models.BodyFormatHTML, true
	case models.BodyFormatHTML:
		return models.BodyFormatHTML, true
	case models.BodyFormatMarkdown:
		return models.BodyFormatMarkdown, true
	}
	return "", false
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"csxhub/internal/models"
)

// testAuthorID creates a throwaway author for post tests.
func testAuthorID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	email := "author-" + uuid.NewString()[:8] + "@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := NewUserStore(db).Create(email, "password1", "Test Author")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	return u.ID
}

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	authorID := testAuthorID(t, db)

	sl := "test-create-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	summary := "S"
	post := &models.Post{
		Slug:     sl,
		Title:    "Test Post",
		Summary:  &summary,
		Body:     "<p>Test body</p>",
		BodyHTML: "<p>Test body</p>",
		Format:   models.BodyFormatHTML,
		Tags:     []string{"go", "testing"},
		Status:   models.PostStatusPrivate,
		AuthorID: authorID,
	}

	created, err := s.Create(post)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Title != "Test Post" {
		t.Errorf("title: got %q, want %q", created.Title, "Test Post")
	}
	if created.PublishedAt != nil {
		t.Error("expected nil published_at for private post")
	}
	if len(created.Tags) != 2 || created.Tags[0] != "go" {
		t.Errorf("tags: got %v", created.Tags)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected post, got nil")
	}
	if found.Slug != sl {
		t.Errorf("slug: got %q, want %q", found.Slug, sl)
	}
}

func TestPostStoreCreatePublishedSetsTimestamp(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	authorID := testAuthorID(t, db)

	sl := "test-pub-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	created, err := s.Create(&models.Post{
		Slug: sl, Title: "Published", Body: "<p>b</p>", BodyHTML: "<p>b</p>",
		Format: models.BodyFormatHTML, Status: models.PostStatusPublished,
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublishedAt == nil {
		t.Error("expected published_at to be set on publish")
	}

	// Published posts are visible by slug.
	found, err := s.FindBySlug(sl)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected published post by slug")
	}
}

func TestPostStoreFindBySlugHidesPrivate(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	authorID := testAuthorID(t, db)

	sl := "test-private-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	if _, err := s.Create(&models.Post{
		Slug: sl, Title: "Hidden", Body: "x", BodyHTML: "x",
		Format: models.BodyFormatHTML, Status: models.PostStatusPrivate,
		AuthorID: authorID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindBySlug(sl)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Error("private post must not be visible by slug")
	}
}

func TestPostStoreListPublishedWindow(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	authorID := testAuthorID(t, db)

	slugs := make([]string, 3)
	for i := range slugs {
		slugs[i] = "test-window-" + uuid.NewString()[:8]
	}
	t.Cleanup(func() { cleanPosts(t, db, slugs...) })

	for _, sl := range slugs {
		if _, err := s.Create(&models.Post{
			Slug: sl, Title: "W", Body: "x", BodyHTML: "x",
			Format: models.BodyFormatHTML, Status: models.PostStatusPublished,
			AuthorID: authorID,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, err := s.ListPublished(2, 0)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("limit: got %d posts, want 2", len(page))
	}

	// Newest first.
	if len(page) == 2 && page[0].PublishedAt != nil && page[1].PublishedAt != nil {
		if page[0].PublishedAt.Before(*page[1].PublishedAt) {
			t.Error("expected descending published_at order")
		}
	}
}

func TestPostStoreUpvote(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	authorID := testAuthorID(t, db)

	sl := "test-upvote-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	created, err := s.Create(&models.Post{
		Slug: sl, Title: "Up", Body: "x", BodyHTML: "x",
		Format: models.BodyFormatHTML, Status: models.PostStatusPublished,
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := s.Upvote(created.ID)
	if err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	if n != 1 {
		t.Errorf("upvotes: got %d, want 1", n)
	}
}

func TestPostStoreSlugExists(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	authorID := testAuthorID(t, db)

	sl := "test-exists-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	if _, err := s.Create(&models.Post{
		Slug: sl, Title: "E", Body: "x", BodyHTML: "x",
		Format: models.BodyFormatHTML, Status: models.PostStatusPrivate,
		AuthorID: authorID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := s.SlugExists(sl)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected slug to exist")
	}

	exists, err = s.SlugExists("no-such-slug-" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if exists {
		t.Error("expected slug to not exist")
	}
}

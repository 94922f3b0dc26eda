package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickblog-api/internal/mocks"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/repository"
	"github.com/rs/zerolog"
)

func newTestPost(id, slug string) *models.Post {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Post{
		ID:        id,
		Title:     "Title " + id,
		Slug:      slug,
		Content:   "content",
		Tags:      []string{"go"},
		Status:    models.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostRepo_SaveAndGet(t *testing.T) {
	store := mocks.NewMockBlobStore()
	repo := repository.NewPostRepo(store, zerolog.Nop())
	ctx := context.Background()

	post := newTestPost("post-1", "first-post")
	if err := repo.Save(ctx, post); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Slug != "first-post" || got.Title != post.Title {
		t.Errorf("Unexpected post: %+v", got)
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("Expected created_at %v, got %v", post.CreatedAt, got.CreatedAt)
	}
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	repo := repository.NewPostRepo(mocks.NewMockBlobStore(), zerolog.Nop())

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepo_Save_Validation(t *testing.T) {
	repo := repository.NewPostRepo(mocks.NewMockBlobStore(), zerolog.Nop())

	if err := repo.Save(context.Background(), nil); err == nil {
		t.Error("Expected error for nil post")
	}
	if err := repo.Save(context.Background(), &models.Post{}); err == nil {
		t.Error("Expected error for empty ID")
	}
}

func TestPostRepo_List_SkipsCorruptEntries(t *testing.T) {
	store := mocks.NewMockBlobStore()
	repo := repository.NewPostRepo(store, zerolog.Nop())
	ctx := context.Background()

	repo.Save(ctx, newTestPost("good-1", "good-one"))
	repo.Save(ctx, newTestPost("good-2", "good-two"))
	store.Blobs["corrupt"] = []byte("{not json")
	store.Blobs["no-id"] = []byte(`{"title":"orphan"}`)
	store.Blobs["broken"] = []byte(`{}`)
	store.GetErrors["broken"] = errors.New("disk error")

	posts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("Expected 2 readable posts, got %d", len(posts))
	}
}

func TestPostRepo_List_KeysFailure(t *testing.T) {
	store := mocks.NewMockBlobStore()
	store.KeysError = errors.New("store unavailable")
	repo := repository.NewPostRepo(store, zerolog.Nop())

	if _, err := repo.List(context.Background()); err == nil {
		t.Error("Expected error when keys cannot be listed")
	}
}

func TestPostRepo_FindBySlug(t *testing.T) {
	store := mocks.NewMockBlobStore()
	repo := repository.NewPostRepo(store, zerolog.Nop())
	ctx := context.Background()

	repo.Save(ctx, newTestPost("a", "alpha"))
	repo.Save(ctx, newTestPost("b", "beta"))

	got, err := repo.FindBySlug(ctx, "beta")
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if got.ID != "b" {
		t.Errorf("Expected post b, got %s", got.ID)
	}

	if _, err := repo.FindBySlug(ctx, "gamma"); !errors.Is(err, repository.ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepo_DeleteAndCount(t *testing.T) {
	store := mocks.NewMockBlobStore()
	repo := repository.NewPostRepo(store, zerolog.Nop())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		repo.Save(ctx, newTestPost(id, id))
	}

	count, _ := repo.Count(ctx)
	if count != 3 {
		t.Errorf("Expected 3, got %d", count)
	}

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "b"); !errors.Is(err, repository.ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound on second delete, got %v", err)
	}

	count, _ = repo.Count(ctx)
	if count != 2 {
		t.Errorf("Expected 2 after delete, got %d", count)
	}
}

func TestPostRepo_DecodesMissingTagsAsEmpty(t *testing.T) {
	store := mocks.NewMockBlobStore()
	repo := repository.NewPostRepo(store, zerolog.Nop())
	store.Blobs["legacy"] = []byte(`{"id":"legacy","title":"Old","slug":"old","content":"x","status":"published"}`)

	got, err := repo.GetByID(context.Background(), "legacy")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Expected empty non-nil tags, got %#v", got.Tags)
	}
}

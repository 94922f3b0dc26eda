package client

import (
	"context"
	"time"

	"github.com/quickblog-api/internal/models"
)

const welcomeContent = `# Welcome to QuickBlog

QuickBlog keeps your posts in a small JSON blob store behind a plain HTTP API.

## What you get

- **Simple storage**: every post is one record, keyed by its id
- **Slugs for free**: titles become readable URLs automatically
- **Drafts**: keep a post private until it is ready
- **Offline mode**: keep writing when the API is unreachable

## Getting started

1. **Create a post** with ` + "`blogctl create`" + `
2. **Edit** it with ` + "`blogctl update`" + `
3. **Publish** by setting its status to published

These sample posts disappear as soon as you write your own.`

const storageContent = `# How QuickBlog Stores Your Posts

Each post is serialized to JSON and written to a key-value blob space.

## Architecture

- **API**: a small HTTP service with list, read, create, update and delete
- **Store**: memory, PostgreSQL, MongoDB or Firestore, chosen at startup
- **Client**: talks to the API and falls back to a local SQLite file

## Trade-offs

- **No indexes**: listing and slug lookups scan every record
- **Last write wins**: concurrent edits to one post overwrite each other
- **Portable**: moving between stores is a copy of key/value pairs

Start writing and the store takes care of the rest.`

// SamplePosts returns fresh copies of the fixed sample posts, dated relative to now
func SamplePosts(now time.Time) []*models.Post {
	now = now.UTC().Truncate(time.Millisecond)
	dayAgo := now.Add(-24 * time.Hour)

	return []*models.Post{
		{
			ID:        "sample-1",
			Title:     "Welcome to QuickBlog",
			Slug:      "welcome-to-quickblog",
			Content:   welcomeContent,
			Excerpt:   "Welcome to your new QuickBlog, a tiny blog backed by a JSON blob store!",
			Tags:      []string{"welcome", "quickblog", "blog", "getting-started"},
			Status:    models.StatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "sample-2",
			Title:     "How QuickBlog Stores Your Posts",
			Slug:      "how-quickblog-stores-your-posts",
			Content:   storageContent,
			Excerpt:   "A look at the blob store, the HTTP API and the offline fallback behind QuickBlog.",
			Tags:      []string{"architecture", "storage", "quickblog"},
			Status:    models.StatusPublished,
			CreatedAt: dayAgo,
			UpdatedAt: dayAgo,
		},
	}
}

// SampleBackend serves the sample posts and rejects writes
type SampleBackend struct {
	now func() time.Time
}

var _ Backend = (*SampleBackend)(nil)

func NewSampleBackend(now func() time.Time) *SampleBackend {
	if now == nil {
		now = time.Now
	}
	return &SampleBackend{now: now}
}

func (b *SampleBackend) List(ctx context.Context) ([]*models.Post, error) {
	return SamplePosts(b.now()), nil
}

func (b *SampleBackend) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	for _, p := range SamplePosts(b.now()) {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (b *SampleBackend) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	return nil, ErrReadOnly
}

func (b *SampleBackend) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	return nil, ErrReadOnly
}

func (b *SampleBackend) Delete(ctx context.Context, id string) error {
	return ErrReadOnly
}

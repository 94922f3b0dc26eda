package repository

import (
	"context"
	"errors"

	"github.com/quickblog-api/internal/blobstore"
	"github.com/quickblog-api/internal/models"
	"github.com/rs/zerolog"
)

// ErrPostNotFound is returned when no post matches an id or slug
var ErrPostNotFound = errors.New("repository: post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// List returns every readable post in no particular order.
	// Corrupt or unreadable records are skipped.
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// FindBySlug scans every record; there is no slug index.
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Post PostRepository
}

// New creates all repositories over the given blob store
func New(store blobstore.BlobStore, log zerolog.Logger) *Repositories {
	return &Repositories{
		Post: NewPostRepo(store, log),
	}
}

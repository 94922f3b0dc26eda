package client

import (
	"context"
	"errors"

	"github.com/quickblog-api/internal/models"
	"github.com/rs/zerolog"
)

// fallbackBackend reads from primary and falls back to secondary.
// Writes go to primary only.
type fallbackBackend struct {
	primary   Backend
	secondary Backend
	log       zerolog.Logger
}

func newFallbackBackend(primary, secondary Backend, log zerolog.Logger) *fallbackBackend {
	return &fallbackBackend{
		primary:   primary,
		secondary: secondary,
		log:       log.With().Str("backend", "fallback").Logger(),
	}
}

func (b *fallbackBackend) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := b.primary.List(ctx)
	if err == nil {
		return posts, nil
	}

	b.log.Warn().Err(err).Msg("Remote list failed, using local posts")
	return b.secondary.List(ctx)
}

// GetBySlug also falls back when the primary does not have the slug
func (b *fallbackBackend) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := b.primary.GetBySlug(ctx, slug)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, ErrNotFound) {
		b.log.Warn().Err(err).Str("slug", slug).Msg("Remote lookup failed, checking local posts")
	}
	return b.secondary.GetBySlug(ctx, slug)
}

func (b *fallbackBackend) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	return b.primary.Create(ctx, req)
}

func (b *fallbackBackend) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	return b.primary.Update(ctx, id, req)
}

func (b *fallbackBackend) Delete(ctx context.Context, id string) error {
	return b.primary.Delete(ctx, id)
}

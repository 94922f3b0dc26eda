package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quickblog-api/internal/blobstore"
	"github.com/quickblog-api/internal/models"
	"github.com/rs/zerolog"
)

// postRepo stores posts as JSON blobs keyed by post ID
type postRepo struct {
	store blobstore.BlobStore
	log   zerolog.Logger
}

// NewPostRepo creates a new post repository over a blob store
func NewPostRepo(store blobstore.BlobStore, log zerolog.Logger) PostRepository {
	return &postRepo{
		store: store,
		log:   log.With().Str("component", "post_repository").Logger(),
	}
}

// List reads every blob and decodes the ones that are valid posts
func (r *postRepo) List(ctx context.Context) ([]*models.Post, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list post keys: %w", err)
	}

	posts := make([]*models.Post, 0, len(keys))
	err = r.scan(ctx, keys, func(p *models.Post) bool {
		posts = append(posts, p)
		return false
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	data, err := r.store.Get(ctx, id)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}

	post, err := decodePost(data)
	if err != nil {
		return nil, fmt.Errorf("decode post %s: %w", id, err)
	}
	return post, nil
}

// FindBySlug returns the first post whose slug matches
func (r *postRepo) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list post keys: %w", err)
	}

	var found *models.Post
	err = r.scan(ctx, keys, func(p *models.Post) bool {
		if p.Slug == slug {
			found = p
			return true
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrPostNotFound
	}
	return found, nil
}

// Save creates or overwrites the post under its ID
func (r *postRepo) Save(ctx context.Context, post *models.Post) error {
	if post == nil {
		return fmt.Errorf("post cannot be nil")
	}
	if post.ID == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("encode post %s: %w", post.ID, err)
	}
	if err := r.store.Set(ctx, post.ID, data); err != nil {
		return fmt.Errorf("save post %s: %w", post.ID, err)
	}
	return nil
}

// Delete removes the post with the given ID
func (r *postRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, id)
	if errors.Is(err, blobstore.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// Count returns the total number of stored records
func (r *postRepo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list post keys: %w", err)
	}
	return len(keys), nil
}

// scan decodes the blobs behind keys one by one, calling visit for each
// readable post until visit returns true. Blobs deleted mid-scan or failing
// to decode are skipped; context cancellation aborts the scan.
func (r *postRepo) scan(ctx context.Context, keys []string, visit func(*models.Post) bool) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := r.store.Get(ctx, key)
		if errors.Is(err, blobstore.ErrNotFound) {
			continue
		}
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("Skipping unreadable post")
			continue
		}

		post, err := decodePost(data)
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("Skipping corrupt post")
			continue
		}

		if visit(post) {
			return nil
		}
	}
	return nil
}

func decodePost(data []byte) (*models.Post, error) {
	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, err
	}
	if post.ID == "" {
		return nil, fmt.Errorf("post has no id")
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

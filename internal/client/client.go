// Package client is the caller-side post repository. It talks to the blog
// API over HTTP and falls back to an on-device SQLite store, then to fixed
// sample posts, so callers always have something to show.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/textutil"
	"github.com/quickblog-api/internal/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned by backends when no post has the requested slug
	ErrNotFound = errors.New("client: post not found")
	// ErrReadOnly is returned by backends that cannot be written to
	ErrReadOnly = errors.New("client: backend is read only")
)

const defaultProbeTimeout = 3 * time.Second

// Backend is one source of posts
type Backend interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// Repository is what callers use. It never fails a read: list errors yield an
// empty list and missing posts yield (nil, false), with sample posts as the floor.
type Repository struct {
	backend     Backend
	samples     *SampleBackend
	local       *LocalStore
	mode        string
	sampleFloor bool
	log         zerolog.Logger
}

// Option configures a Repository
type Option func(*Repository)

// WithMode records the mode the backend was selected for
func WithMode(mode string) Option {
	return func(r *Repository) { r.mode = mode }
}

// WithLocalStore attaches the on-device store so it can be cleared and closed
func WithLocalStore(store *LocalStore) Option {
	return func(r *Repository) { r.local = store }
}

// WithSampleFloor toggles the sample posts shown when nothing else is available
func WithSampleFloor(enabled bool) Option {
	return func(r *Repository) { r.sampleFloor = enabled }
}

// WithSamples replaces the sample backend
func WithSamples(samples *SampleBackend) Option {
	return func(r *Repository) { r.samples = samples }
}

// NewRepository wraps a backend
func NewRepository(backend Backend, log zerolog.Logger, opts ...Option) *Repository {
	r := &Repository{
		backend:     backend,
		samples:     NewSampleBackend(time.Now),
		mode:        config.ModeOnline,
		sampleFloor: true,
		log:         log.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// New selects the backend for cfg.Mode once:
// online uses the remote API with the local store as read fallback,
// offline uses the local store only, auto probes the API and picks one of the two.
func New(cfg *config.ClientConfig, log zerolog.Logger) (*Repository, error) {
	local, err := OpenLocalStore(cfg.LocalPath, log)
	if err != nil {
		if cfg.Mode == config.ModeOffline {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		log.Warn().Err(err).Str("path", cfg.LocalPath).Msg("Local store unavailable, continuing without fallback")
	}

	remote := NewRemoteBackend(cfg.APIURL, &http.Client{Timeout: cfg.Timeout}, log)

	mode := cfg.Mode
	if mode == config.ModeAuto {
		mode = probe(remote, cfg.Timeout, log)
	}

	var backend Backend
	switch mode {
	case config.ModeOffline:
		if local == nil {
			return nil, fmt.Errorf("offline mode needs a local store at %s", cfg.LocalPath)
		}
		backend = NewLocalBackend(local, log)
	default:
		mode = config.ModeOnline
		if local != nil {
			backend = newFallbackBackend(remote, NewLocalBackend(local, log), log)
		} else {
			backend = remote
		}
	}

	log.Info().Str("mode", mode).Str("api_url", cfg.APIURL).Msg("Client repository ready")

	opts := []Option{WithMode(mode), WithSampleFloor(cfg.SampleFloor)}
	if local != nil {
		opts = append(opts, WithLocalStore(local))
	}
	return NewRepository(backend, log, opts...), nil
}

func probe(remote *RemoteBackend, timeout time.Duration, log zerolog.Logger) string {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := remote.Ping(ctx); err != nil {
		log.Info().Err(err).Msg("Blog API not reachable, working offline")
		return config.ModeOffline
	}
	return config.ModeOnline
}

// GetAllPosts returns every post from the active backend
func (r *Repository) GetAllPosts(ctx context.Context) []*models.Post {
	posts, err := r.backend.List(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("Failed to load posts")
		posts = nil
	}

	if len(posts) == 0 && r.sampleFloor {
		samples, _ := r.samples.List(ctx)
		return samples
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts
}

// GetPostBySlug reports false when neither the backend nor the samples have the slug
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, bool) {
	post, err := r.backend.GetBySlug(ctx, slug)
	if err == nil {
		return post, true
	}
	if !errors.Is(err, ErrNotFound) {
		r.log.Warn().Err(err).Str("slug", slug).Msg("Failed to load post")
	}

	if r.sampleFloor {
		if post, err := r.samples.GetBySlug(ctx, slug); err == nil {
			return post, true
		}
	}
	return nil, false
}

// CreatePost validates the draft, then creates it through the backend.
// Validation failures are returned as validation.Errors.
func (r *Repository) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	if err := validation.ValidateCreate(req); err != nil {
		return nil, err
	}

	post, err := r.backend.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// UpdatePost validates the supplied fields, then updates through the backend
func (r *Repository) UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if err := validation.ValidateUpdate(req); err != nil {
		return nil, err
	}
	if req == nil {
		req = &models.UpdatePostRequest{}
	}

	post, err := r.backend.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (r *Repository) DeletePost(ctx context.Context, id string) error {
	if err := r.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *Repository) GenerateSlug(title string) string {
	return textutil.GenerateSlug(title)
}

func (r *Repository) GenerateExcerpt(content string, maxLength int) string {
	return textutil.GenerateExcerpt(content, maxLength)
}

// Mode reports online or offline
func (r *Repository) Mode() string {
	return r.mode
}

// ClearLocal empties the on-device store
func (r *Repository) ClearLocal(ctx context.Context) error {
	if r.local == nil {
		return nil
	}
	return r.local.Clear(ctx)
}

// Close releases the on-device store
func (r *Repository) Close() error {
	if r.local == nil {
		return nil
	}
	return r.local.Close()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/repository"
	"github.com/quickblog-api/internal/textutil"
	"github.com/rs/zerolog"
)

var (
	// ErrPostNotFound is returned when the target id or slug does not exist
	ErrPostNotFound = repository.ErrPostNotFound
	// ErrTitleContentRequired is returned by Create when title or content is blank
	ErrTitleContentRequired = errors.New("title and content are required")
	// ErrInvalidStatus is returned when a status other than draft or published is supplied
	ErrInvalidStatus = errors.New("status must be draft or published")
)

// Option customizes a post service
type Option func(*postService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *postService) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUIDv7 id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *postService) {
		s.newID = newID
	}
}

// postService is the concrete implementation of PostService
type postService struct {
	repo  repository.PostRepository
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewPostService creates a post service over repo
func NewPostService(repo repository.PostRepository, log zerolog.Logger, opts ...Option) PostService {
	s := &postService{
		repo:  repo,
		log:   log.With().Str("service", "post").Logger(),
		now:   time.Now,
		newID: newPostID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every post, newest first
func (s *postService) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// GetBySlug scans all posts for a matching slug
func (s *postService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return post, nil
}

// Create assigns id, slug, excerpt and timestamps, then persists the post
func (s *postService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrTitleContentRequired
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = textutil.GenerateExcerpt(req.Content, textutil.DefaultExcerptLength)
	}

	tags := append([]string{}, req.Tags...)

	now := s.timestamp()
	post := &models.Post{
		ID:        s.newID(),
		Title:     req.Title,
		Slug:      textutil.GenerateSlug(req.Title),
		Content:   req.Content,
		Excerpt:   excerpt,
		Tags:      tags,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Msg("Post created")
	return post, nil
}

// Update merges the supplied fields over the stored post
func (s *postService) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if req != nil && req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	if req.ApplyTo(post) {
		post.Slug = textutil.GenerateSlug(post.Title)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	post.UpdatedAt = s.timestamp()
	if post.UpdatedAt.Before(post.CreatedAt) {
		post.UpdatedAt = post.CreatedAt
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Msg("Post updated")
	return post, nil
}

// Delete removes an existing post
func (s *postService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info().Str("post_id", id).Msg("Post deleted")
	return nil
}

// Count returns the number of stored posts
func (s *postService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// timestamp returns the current time in the precision of an ISO-8601 string
func (s *postService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// newPostID returns a UUIDv7: a millisecond timestamp prefix followed by random bits
func newPostID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

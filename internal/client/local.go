package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/textutil"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// sortable timestamp layout; fixed width so TEXT ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// LocalStore keeps posts in a SQLite file until cleared
type LocalStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenLocalStore opens (or creates) the SQLite file at path and applies pending migrations
func OpenLocalStore(path string, log zerolog.Logger) (*LocalStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := runLocalMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run local migrations: %w", err)
	}

	return &LocalStore{
		db:  db,
		log: log.With().Str("store", "local").Logger(),
	}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

const upsertLocalPostQuery = `
	INSERT INTO local_posts (id, slug, data, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		slug = excluded.slug,
		data = excluded.data,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

// Save inserts or replaces a post
func (s *LocalStore) Save(ctx context.Context, p *models.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}
	if p.ID == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode post %s: %w", p.ID, err)
	}

	_, err = s.db.ExecContext(ctx, upsertLocalPostQuery,
		p.ID,
		p.Slug,
		string(data),
		p.CreatedAt.UTC().Format(timeLayout),
		p.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save post %s: %w", p.ID, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, id string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM local_posts WHERE id = ?`, id)
	return scanLocalPost(row)
}

// GetBySlug returns the newest post with the slug
func (s *LocalStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM local_posts WHERE slug = ? ORDER BY created_at DESC LIMIT 1`, slug)
	return scanLocalPost(row)
}

// Update merges req into the stored post. It returns ErrNotFound when id is absent.
func (s *LocalStore) Update(ctx context.Context, id string, req *models.UpdatePostRequest, now time.Time) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ApplyTo(post) {
		post.Slug = textutil.GenerateSlug(post.Title)
	}
	post.UpdatedAt = now
	if post.UpdatedAt.Before(post.CreatedAt) {
		post.UpdatedAt = post.CreatedAt
	}

	if err := s.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete reports whether a post was removed
func (s *LocalStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM local_posts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete post %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post %s: %w", id, err)
	}
	return n > 0, nil
}

// List returns every readable post, newest first. Corrupt rows are skipped.
func (s *LocalStore) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM local_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list local posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan local post: %w", err)
		}
		post, err := decodeLocalPost(data)
		if err != nil {
			s.log.Warn().Err(err).Str("post_id", id).Msg("Skipping corrupt local post")
			continue
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate local posts: %w", err)
	}
	return posts, nil
}

// Clear removes every post
func (s *LocalStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_posts`); err != nil {
		return fmt.Errorf("clear local posts: %w", err)
	}
	return nil
}

func scanLocalPost(row *sql.Row) (*models.Post, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read local post: %w", err)
	}
	return decodeLocalPost(data)
}

func decodeLocalPost(data string) (*models.Post, error) {
	var post models.Post
	if err := json.Unmarshal([]byte(data), &post); err != nil {
		return nil, fmt.Errorf("decode local post: %w", err)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

// LocalBackend serves posts from a LocalStore. Storage failures are logged
// and treated as missing data; they never reach the caller.
type LocalBackend struct {
	store *LocalStore
	now   func() time.Time
	log   zerolog.Logger
}

var _ Backend = (*LocalBackend)(nil)

func NewLocalBackend(store *LocalStore, log zerolog.Logger) *LocalBackend {
	return &LocalBackend{
		store: store,
		now:   time.Now,
		log:   log.With().Str("backend", "local").Logger(),
	}
}

func (b *LocalBackend) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := b.store.List(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("Failed to read local posts")
		return []*models.Post{}, nil
	}
	return posts, nil
}

func (b *LocalBackend) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := b.store.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.log.Warn().Err(err).Str("slug", slug).Msg("Failed to read local post")
		}
		return nil, ErrNotFound
	}
	return post, nil
}

// Create builds the post locally with a local- id
func (b *LocalBackend) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	now := b.timestamp()

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = textutil.GenerateExcerpt(req.Content, textutil.DefaultExcerptLength)
	}

	post := &models.Post{
		ID:        "local-" + uuid.NewString(),
		Title:     req.Title,
		Slug:      textutil.GenerateSlug(req.Title),
		Content:   req.Content,
		Excerpt:   excerpt,
		Tags:      append([]string{}, req.Tags...),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := b.store.Save(ctx, post); err != nil {
		b.log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to save local post")
	}
	return post, nil
}

// Update merges into the stored post. When the id is unknown locally a
// replacement post is built from whatever fields were supplied.
func (b *LocalBackend) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := b.store.Update(ctx, id, req, b.timestamp())
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, ErrNotFound) {
		b.log.Warn().Err(err).Str("post_id", id).Msg("Failed to update local post")
	}

	post = b.replacement(id, req)
	b.log.Warn().Str("post_id", id).Msg("Post not found locally, stored a replacement")
	if err := b.store.Save(ctx, post); err != nil {
		b.log.Warn().Err(err).Str("post_id", id).Msg("Failed to save replacement post")
	}
	return post, nil
}

func (b *LocalBackend) replacement(id string, req *models.UpdatePostRequest) *models.Post {
	now := b.timestamp()
	post := &models.Post{
		ID:        id,
		Title:     "Updated Post",
		Content:   "Updated content",
		Tags:      []string{},
		Status:    models.StatusPublished,
		CreatedAt: now.Add(-24 * time.Hour),
		UpdatedAt: now,
	}
	if req == nil {
		req = &models.UpdatePostRequest{}
	}

	if req.Title != nil && *req.Title != "" {
		post.Title = *req.Title
		post.Slug = textutil.GenerateSlug(post.Title)
	} else {
		post.Slug = "updated-" + id
	}
	if req.Content != nil && *req.Content != "" {
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.Tags = append([]string{}, (*req.Tags)...)
	}
	if req.Status != nil && *req.Status != "" {
		post.Status = *req.Status
	}
	if req.Excerpt != nil && *req.Excerpt != "" {
		post.Excerpt = *req.Excerpt
	} else {
		post.Excerpt = textutil.GenerateExcerpt(post.Content, textutil.DefaultExcerptLength)
	}
	return post
}

// Delete succeeds whether or not the post existed
func (b *LocalBackend) Delete(ctx context.Context, id string) error {
	deleted, err := b.store.Delete(ctx, id)
	if err != nil {
		b.log.Warn().Err(err).Str("post_id", id).Msg("Failed to delete local post")
		return nil
	}
	b.log.Debug().Str("post_id", id).Bool("deleted", deleted).Msg("Local delete")
	return nil
}

func (b *LocalBackend) timestamp() time.Time {
	return b.now().UTC().Truncate(time.Millisecond)
}

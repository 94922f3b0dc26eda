package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/quickblog-api/internal/models"
	"github.com/rs/zerolog"
)

// APIError is a non-2xx answer from the blog API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// RemoteBackend calls the blog API
type RemoteBackend struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ Backend = (*RemoteBackend)(nil)

// NewRemoteBackend creates a backend for the API rooted at baseURL,
// e.g. http://localhost:8080/blog-api
func NewRemoteBackend(baseURL string, httpClient *http.Client, log zerolog.Logger) *RemoteBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RemoteBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.With().Str("backend", "remote").Logger(),
	}
}

func (b *RemoteBackend) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := b.do(ctx, http.MethodGet, "", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (b *RemoteBackend) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := b.do(ctx, http.MethodGet, "/"+url.PathEscape(slug), nil, &post)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (b *RemoteBackend) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := b.do(ctx, http.MethodPost, "", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (b *RemoteBackend) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := b.do(ctx, http.MethodPut, "/"+url.PathEscape(id), req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (b *RemoteBackend) Delete(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil, nil)
}

// Ping checks that the API answers a list request
func (b *RemoteBackend) Ping(ctx context.Context) error {
	return b.do(ctx, http.MethodGet, "", nil, nil)
}

func (b *RemoteBackend) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var body models.ErrorResponse
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

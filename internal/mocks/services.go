package mocks

import (
	"context"

	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/service"
)

// MockPostService is a mock implementation of PostService
type MockPostService struct {
	ListFunc      func(ctx context.Context) ([]*models.Post, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*models.Post, error)
	CreateFunc    func(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error)
	UpdateFunc    func(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error)
	DeleteFunc    func(ctx context.Context, id string) error

	Posts       map[string]*models.Post
	CreatedReqs []*models.CreatePostRequest
	DeletedIDs  []string
}

// Verify interface compliance
var _ service.PostService = (*MockPostService)(nil)

func NewMockPostService() *MockPostService {
	return &MockPostService{
		Posts: make(map[string]*models.Post),
	}
}

func (m *MockPostService) List(ctx context.Context) ([]*models.Post, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	posts := make([]*models.Post, 0, len(m.Posts))
	for _, p := range m.Posts {
		posts = append(posts, p)
	}
	return posts, nil
}

func (m *MockPostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	for _, p := range m.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, service.ErrPostNotFound
}

func (m *MockPostService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	m.CreatedReqs = append(m.CreatedReqs, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	post := &models.Post{
		ID:      "mock-post-id",
		Title:   req.Title,
		Slug:    "mock-slug",
		Content: req.Content,
		Tags:    req.Tags,
		Status:  models.StatusDraft,
	}
	m.Posts[post.ID] = post
	return post, nil
}

func (m *MockPostService) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	post, ok := m.Posts[id]
	if !ok {
		return nil, service.ErrPostNotFound
	}
	req.ApplyTo(post)
	return post, nil
}

func (m *MockPostService) Delete(ctx context.Context, id string) error {
	m.DeletedIDs = append(m.DeletedIDs, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	if _, ok := m.Posts[id]; !ok {
		return service.ErrPostNotFound
	}
	delete(m.Posts, id)
	return nil
}

func (m *MockPostService) Count(ctx context.Context) (int, error) {
	return len(m.Posts), nil
}

package service

import (
	"context"

	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/repository"
	"github.com/rs/zerolog"
)

// PostService defines the post store operations served over HTTP
type PostService interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Post PostService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Post: NewPostService(repos.Post, log),
	}
}

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/service"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 30 * time.Second

// PostHandler handles the blog post endpoints
type PostHandler struct {
	services *service.Services
	timeout  time.Duration
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *PostHandler {
	timeout := cfg.Server.WriteTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &PostHandler{
		services: services,
		timeout:  timeout,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// ListPosts handles GET /
// Returns every post, newest first
func (h *PostHandler) ListPosts(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	posts, err := h.services.Post.List(ctx)
	if err != nil {
		h.internalError(c, err, "Failed to list posts")
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost handles GET /:slug
func (h *PostHandler) GetPost(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	slug := c.Param("key")
	post, err := h.services.Post.GetBySlug(ctx, slug)
	if err != nil {
		h.writeError(c, err, "Failed to get post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	post, err := h.services.Post.Create(ctx, &req)
	if err != nil {
		h.writeError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /:id
// Fields absent from the body keep their stored values
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	id := c.Param("key")
	post, err := h.services.Post.Update(ctx, id, &req)
	if err != nil {
		h.writeError(c, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	id := c.Param("key")
	if err := h.services.Post.Delete(ctx, id); err != nil {
		h.writeError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Post deleted successfully"})
}

// writeError maps service errors to HTTP responses
func (h *PostHandler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Post not found"})
	case errors.Is(err, service.ErrTitleContentRequired):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Title and content are required"})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Status must be draft or published"})
	default:
		h.internalError(c, err, msg)
	}
}

func (h *PostHandler) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickblog-api/internal/api"
	"github.com/quickblog-api/internal/blobstore"
	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/mocks"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/repository"
	"github.com/quickblog-api/internal/service"
	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", PathPrefix: "/blog-api"},
		Store:  config.StoreConfig{Driver: config.DriverMemory, Name: "blog-posts"},
	}
}

func setupTestRouter() (*gin.Engine, *mocks.MockPostService) {
	gin.SetMode(gin.TestMode)

	mockPosts := mocks.NewMockPostService()
	services := &service.Services{Post: mockPosts}

	router := api.NewRouter(services, testConfig(), zerolog.Nop())
	return router, mockPosts
}

// setupStoreRouter wires the real service over an in-memory blob store
func setupStoreRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repos := repository.New(blobstore.NewMemoryStore(), zerolog.Nop())
	services := service.NewServices(repos, zerolog.Nop())
	return api.NewRouter(services, testConfig(), zerolog.Nop())
}

func doRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not an error body: %s", w.Body.String())
	}
	return resp.Error
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "quickblog-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.Posts["a"] = &models.Post{ID: "a"}
	mockPosts.Posts["b"] = &models.Post{ID: "b"}

	w := doRequest(router, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	store := response["store"].(map[string]interface{})
	if store["posts"].(float64) != 2 {
		t.Errorf("Expected 2 posts, got %v", store["posts"])
	}
	if store["driver"] != "memory" {
		t.Errorf("Expected memory driver, got %v", store["driver"])
	}
}

func TestListPosts(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.ListFunc = func(ctx context.Context) ([]*models.Post, error) {
		return []*models.Post{{ID: "2", Title: "Newer"}, {ID: "1", Title: "Older"}}, nil
	}

	for _, path := range []string{"/blog-api", "/blog-api/"} {
		w := doRequest(router, "GET", path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, w.Code)
		}

		var posts []models.Post
		json.Unmarshal(w.Body.Bytes(), &posts)
		if len(posts) != 2 || posts[0].ID != "2" {
			t.Errorf("%s: unexpected posts %+v", path, posts)
		}
	}
}

func TestListPosts_EmptyIsArray(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.ListFunc = func(ctx context.Context) ([]*models.Post, error) { return nil, nil }

	w := doRequest(router, "GET", "/blog-api/", nil)
	if w.Body.String() != "[]" {
		t.Errorf("Expected [], got %s", w.Body.String())
	}
}

func TestListPosts_StoreFailure(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.ListFunc = func(ctx context.Context) ([]*models.Post, error) {
		return nil, errors.New("connection refused")
	}

	w := doRequest(router, "GET", "/blog-api/", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "Internal server error" {
		t.Errorf("Expected generic message, got %q", msg)
	}
}

func TestGetPost(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.Posts["p1"] = &models.Post{ID: "p1", Slug: "hello-world", Title: "Hello World", Tags: []string{}}

	w := doRequest(router, "GET", "/blog-api/hello-world", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var post models.Post
	json.Unmarshal(w.Body.Bytes(), &post)
	if post.ID != "p1" {
		t.Errorf("Expected post p1, got %s", post.ID)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "GET", "/blog-api/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "Post not found" {
		t.Errorf("Expected 'Post not found', got %q", msg)
	}
}

func TestCreatePost(t *testing.T) {
	router, mockPosts := setupTestRouter()

	w := doRequest(router, "POST", "/blog-api/", map[string]interface{}{
		"title":   "Hello",
		"content": "World",
		"tags":    []string{"go"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if len(mockPosts.CreatedReqs) != 1 || mockPosts.CreatedReqs[0].Title != "Hello" {
		t.Errorf("Expected service to receive the request, got %+v", mockPosts.CreatedReqs)
	}
}

func TestCreatePost_ValidationErrors(t *testing.T) {
	router := setupStoreRouter()

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing title",
			body:           map[string]string{"content": "body"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Title and content are required",
		},
		{
			name:           "missing content",
			body:           map[string]string{"title": "title"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Title and content are required",
		},
		{
			name:           "empty body",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Title and content are required",
		},
		{
			name:           "malformed json",
			body:           "{title:",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "invalid status",
			body:           map[string]string{"title": "T", "content": "C", "status": "archived"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Status must be draft or published",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/blog-api/", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if msg := decodeError(t, w); msg != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, msg)
			}
		})
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "PUT", "/blog-api/missing", map[string]string{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeletePost(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.Posts["p1"] = &models.Post{ID: "p1"}

	w := doRequest(router, "DELETE", "/blog-api/p1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp models.MessageResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "Post deleted successfully" {
		t.Errorf("Unexpected message %q", resp.Message)
	}

	w = doRequest(router, "DELETE", "/blog-api/p1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on repeated delete, got %d", w.Code)
	}
}

func TestPostLifecycle(t *testing.T) {
	router := setupStoreRouter()

	w := doRequest(router, "POST", "/blog-api/", map[string]interface{}{
		"title":   "First Post",
		"content": "Some content for the first post",
		"status":  "published",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d", w.Code)
	}
	var created models.Post
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Slug != "first-post" || created.Excerpt == "" {
		t.Fatalf("Create: unexpected post %+v", created)
	}

	w = doRequest(router, "GET", "/blog-api/first-post", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get: expected 200, got %d", w.Code)
	}

	// empty body only refreshes updated_at
	time.Sleep(2 * time.Millisecond)
	w = doRequest(router, "PUT", "/blog-api/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Empty update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var touched models.Post
	json.Unmarshal(w.Body.Bytes(), &touched)
	if touched.Title != created.Title || touched.Slug != created.Slug || !touched.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("Empty update changed fields: %+v", touched)
	}
	if touched.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("updated_at moved backwards")
	}

	w = doRequest(router, "PUT", "/blog-api/"+created.ID, map[string]string{"title": "Renamed Post"})
	var renamed models.Post
	json.Unmarshal(w.Body.Bytes(), &renamed)
	if renamed.Slug != "renamed-post" || renamed.ID != created.ID {
		t.Errorf("Rename: unexpected post %+v", renamed)
	}

	w = doRequest(router, "GET", "/blog-api/", nil)
	var posts []models.Post
	json.Unmarshal(w.Body.Bytes(), &posts)
	if len(posts) != 1 {
		t.Errorf("List: expected 1 post, got %d", len(posts))
	}

	w = doRequest(router, "DELETE", "/blog-api/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Delete: expected 200, got %d", w.Code)
	}
	w = doRequest(router, "GET", "/blog-api/renamed-post", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Get after delete: expected 404, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := setupTestRouter()

	tests := []struct {
		method string
		path   string
	}{
		{"PATCH", "/blog-api/some-id"},
		{"POST", "/blog-api/some-id"},
	}

	for _, tt := range tests {
		w := doRequest(router, tt.method, tt.path, nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tt.method, tt.path, w.Code)
		}
		if msg := decodeError(t, w); msg != "Method not allowed" {
			t.Errorf("%s %s: unexpected message %q", tt.method, tt.path, msg)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s %s: missing CORS header", tt.method, tt.path)
		}
	}
}

func TestNotFoundRoute(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "GET", "/blog-api/a/b/c", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "Not found" {
		t.Errorf("Expected 'Not found', got %q", msg)
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _ := setupTestRouter()

	for _, path := range []string{"/blog-api/", "/blog-api/anything", "/elsewhere"} {
		w := doRequest(router, "OPTIONS", path, nil)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200 for OPTIONS, got %d", path, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("%s: expected empty preflight body, got %q", path, w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
			t.Errorf("Unexpected Access-Control-Allow-Methods %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
			t.Errorf("Unexpected Access-Control-Allow-Headers %q", got)
		}
	}

	w := doRequest(router, "GET", "/blog-api/missing", nil)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on 404 response")
	}
}

func TestPanicRecovery(t *testing.T) {
	router, mockPosts := setupTestRouter()
	mockPosts.ListFunc = func(ctx context.Context) ([]*models.Post, error) {
		panic("boom")
	}

	w := doRequest(router, "GET", "/blog-api/", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "Internal server error" {
		t.Errorf("Unexpected message %q", msg)
	}
}

func TestRootPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPosts := mocks.NewMockPostService()
	mockPosts.Posts["p1"] = &models.Post{ID: "p1", Slug: "root-post"}

	cfg := testConfig()
	cfg.Server.PathPrefix = "/"
	router := api.NewRouter(&service.Services{Post: mockPosts}, cfg, zerolog.Nop())

	if w := doRequest(router, "GET", "/root-post", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 at root prefix, got %d", w.Code)
	}
	if w := doRequest(router, "GET", "/health", nil); w.Code != http.StatusOK {
		t.Errorf("Expected health to win over the slug route, got %d", w.Code)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tedblog/internal/models"
	"tedblog/internal/repository"
	"tedblog/internal/services"
	"tedblog/internal/utils"
)

var errNoCalls = errors.New("store should not be called")

type stubStore struct {
	posts   []models.PostWithRelations
	err     error
	created models.NewPost
	updated models.PostUpdate
	deleted uint
}

func (s *stubStore) Create(_ context.Context, in models.NewPost) (*models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = in
	return &models.Post{ID: 42, Title: in.Title, Slug: in.Slug, Content: in.Content, AuthorID: in.AuthorID}, nil
}

func (s *stubStore) GetAll(context.Context) ([]models.PostWithRelations, error) {
	return s.posts, s.err
}

func (s *stubStore) find(match func(models.PostWithRelations) bool) (*models.PostWithRelations, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.posts {
		if match(s.posts[i]) {
			return &s.posts[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubStore) GetByID(_ context.Context, id uint) (*models.PostWithRelations, error) {
	return s.find(func(p models.PostWithRelations) bool { return p.ID == id })
}

func (s *stubStore) GetBySlug(_ context.Context, slug string) (*models.PostWithRelations, error) {
	return s.find(func(p models.PostWithRelations) bool { return p.Slug == slug })
}

func (s *stubStore) Update(_ context.Context, id uint, in models.PostUpdate) (*models.Post, error) {
	p, err := s.find(func(p models.PostWithRelations) bool { return p.ID == id })
	if err != nil {
		return nil, err
	}
	s.updated = in
	out := p.Post
	if in.Title != nil {
		out.Title = *in.Title
	}
	return &out, nil
}

func (s *stubStore) Delete(_ context.Context, id uint) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, p := range s.posts {
		if p.ID == id {
			s.deleted = id
			return true, nil
		}
	}
	return false, nil
}

func samplePosts() []models.PostWithRelations {
	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id uint, title, slug, category string) models.PostWithRelations {
		return models.PostWithRelations{
			Post:       models.Post{ID: id, Title: title, Slug: slug, Content: "## " + title, UpdatedAt: updated},
			Author:     &models.User{ID: 1, Name: "Ted"},
			Categories: []models.Category{{ID: 1, Name: category}},
			Comments:   []models.CommentWithAuthor{},
		}
	}
	return []models.PostWithRelations{
		mk(1, "Hello Go", "hello-go", "Technology"),
		mk(2, "Notes on Gin", "notes-on-gin", "Notes"),
		mk(3, "Third", "third", "Notes"),
	}
}

func newTestRouter(t *testing.T, store PostStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	renders, err := utils.NewRenderCache(16)
	if err != nil {
		t.Fatal(err)
	}
	h := NewPostHandler(store, renders, 2)

	r := gin.New()
	r.GET("/api/posts", h.List)
	r.GET("/api/posts/:slug", h.Detail)
	r.GET("/api/posts/id/:id", h.ByID)
	r.GET("/api/categories", h.Categories)
	r.POST("/api/posts", h.Create)
	r.PATCH("/api/posts/:id", h.Update)
	r.DELETE("/api/posts/:id", h.Delete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListPaginatesAndFilters(t *testing.T) {
	r := newTestRouter(t, &stubStore{posts: samplePosts()})

	w := do(r, http.MethodGet, "/api/posts?category=Notes&page=9", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var page services.PostPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 1 || page.FilteredCount != 2 || page.TotalPosts != 3 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Posts) != 2 || page.Posts[0].Slug != "notes-on-gin" {
		t.Errorf("posts = %+v", page.Posts)
	}

	w = do(r, http.MethodGet, "/api/posts?page=2", "")
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Page != 2 || page.TotalPages != 2 || len(page.Posts) != 1 {
		t.Errorf("second page = %+v", page)
	}
}

func TestDetailRendersMarkdown(t *testing.T) {
	r := newTestRouter(t, &stubStore{posts: samplePosts()})

	w := do(r, http.MethodGet, "/api/posts/hello-go", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["slug"] != "hello-go" {
		t.Errorf("slug = %v", body["slug"])
	}
	html, _ := body["contentHtml"].(string)
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "Hello Go") {
		t.Errorf("contentHtml = %q", html)
	}
}

func TestDetailNotFound(t *testing.T) {
	r := newTestRouter(t, &stubStore{posts: samplePosts()})

	w := do(r, http.MethodGet, "/api/posts/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Post not found") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestByID(t *testing.T) {
	r := newTestRouter(t, &stubStore{posts: samplePosts()})

	if w := do(r, http.MethodGet, "/api/posts/id/2", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "notes-on-gin") {
		t.Errorf("GET id 2 = %d %s", w.Code, w.Body)
	}
	if w := do(r, http.MethodGet, "/api/posts/id/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestStoreFailureIs500(t *testing.T) {
	r := newTestRouter(t, &stubStore{err: errors.New("connection refused")})

	w := do(r, http.MethodGet, "/api/posts", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("internal error leaked: %s", w.Body)
	}
}

func TestCategories(t *testing.T) {
	r := newTestRouter(t, &stubStore{posts: samplePosts()})

	w := do(r, http.MethodGet, "/api/categories", "")
	if w.Body.String() != `{"categories":["Notes","Technology"]}` {
		t.Errorf("body = %s", w.Body)
	}
}

func TestCreateDerivesSlug(t *testing.T) {
	store := &stubStore{}
	r := newTestRouter(t, store)

	w := do(r, http.MethodPost, "/api/posts", `{"title":"Hello, World!","content":"hi","authorId":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if store.created.Slug != "hello-world" {
		t.Errorf("slug = %q, want hello-world", store.created.Slug)
	}
}

func TestCreateValidation(t *testing.T) {
	r := newTestRouter(t, &stubStore{})

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"content":"hi","authorId":1}`},
		{"missing content", `{"title":"x","authorId":1}`},
		{"malformed json", `{"title":`},
		{"title without slug characters", `{"title":"!!!","content":"hi","authorId":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, http.MethodPost, "/api/posts", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	store := &stubStore{posts: samplePosts()}
	r := newTestRouter(t, store)

	w := do(r, http.MethodPatch, "/api/posts/1", `{"title":"Renamed"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Renamed") {
		t.Errorf("PATCH = %d %s", w.Code, w.Body)
	}
	if store.updated.Title == nil || store.updated.Content != nil {
		t.Errorf("update = %+v", store.updated)
	}

	if w := do(r, http.MethodPatch, "/api/posts/99", `{"title":"x"}`); w.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", w.Code)
	}
}

func TestDelete(t *testing.T) {
	store := &stubStore{posts: samplePosts()}
	r := newTestRouter(t, store)

	if w := do(r, http.MethodDelete, "/api/posts/3", ""); w.Code != http.StatusNoContent || store.deleted != 3 {
		t.Errorf("DELETE = %d, deleted %d", w.Code, store.deleted)
	}
	if w := do(r, http.MethodDelete, "/api/posts/99", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", w.Code)
	}
}

package handlers

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"tedblog/internal/models"
	"tedblog/internal/repository"
	"tedblog/internal/services"
	"tedblog/internal/utils"
)

// PostStore is the part of the repository the handlers use.
type PostStore interface {
	Create(ctx context.Context, in models.NewPost) (*models.Post, error)
	GetAll(ctx context.Context) ([]models.PostWithRelations, error)
	GetByID(ctx context.Context, id uint) (*models.PostWithRelations, error)
	GetBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error)
	Update(ctx context.Context, id uint, in models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// PostDetail is a post with its body rendered to HTML.
type PostDetail struct {
	*models.PostWithRelations
	ContentHTML template.HTML `json:"contentHtml"`
}

type PostHandler struct {
	store   PostStore
	renders *utils.RenderCache
	perPage int
}

func NewPostHandler(store PostStore, renders *utils.RenderCache, perPage int) *PostHandler {
	return &PostHandler{store: store, renders: renders, perPage: perPage}
}

// List returns one page of posts (GET /api/posts?q=&category=&page=).
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		page = utils.StringToInt(p)
	}
	result := services.FilterPosts(posts, services.PostFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Page:     page,
		PerPage:  h.perPage,
	})
	c.JSON(http.StatusOK, result)
}

// Categories lists the category names in use (GET /api/categories).
func (h *PostHandler) Categories(c *gin.Context) {
	posts, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": services.CategoryNames(posts)})
}

// Detail returns a post by slug (GET /api/posts/:slug).
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.store.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.detail(post))
}

// ByID returns a post by numeric id (GET /api/posts/id/:id).
func (h *PostHandler) ByID(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "Invalid post id")
		return
	}
	post, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.detail(post))
}

func (h *PostHandler) detail(post *models.PostWithRelations) PostDetail {
	key := utils.RenderKey(post.ID, post.UpdatedAt)
	return PostDetail{
		PostWithRelations: post,
		ContentHTML:       h.renders.Render(key, post.Content),
	}
}

// Create adds a post (POST /api/posts). A missing slug is derived from the
// title.
func (h *PostHandler) Create(c *gin.Context) {
	var in models.NewPost
	if err := c.ShouldBindJSON(&in); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.Slug == "" {
		in.Slug = repository.GenerateSlug(in.Title)
	}
	if in.Slug == "" {
		JSONError(c, http.StatusBadRequest, "Title does not produce a usable slug")
		return
	}

	post, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Update applies a partial update (PATCH /api/posts/:id).
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "Invalid post id")
		return
	}
	var in models.PostUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.store.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete removes a post (DELETE /api/posts/:id).
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "Invalid post id")
		return
	}
	removed, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}
	c.Status(http.StatusNoContent)
}

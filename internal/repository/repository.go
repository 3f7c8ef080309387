// Package repository reads and writes posts. Writes always go through gorm;
// reads go through whichever PostReader was chosen at startup.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tedblog/internal/config"
	"tedblog/internal/logging"
	"tedblog/internal/models"
	"tedblog/internal/sqlproxy"
)

// ErrNotFound is returned when no post matches a lookup or an update.
var ErrNotFound = errors.New("post not found")

type Repository struct {
	db     *gorm.DB
	reader PostReader
	now    func() time.Time
}

// New wires a repository with an explicit reader.
func New(db *gorm.DB, reader PostReader) *Repository {
	return &Repository{db: db, reader: reader, now: time.Now}
}

// NewFromConfig picks the reader from cfg.ReadPath. exec is only used when
// the proxy path is selected.
func NewFromConfig(cfg *config.Config, db *gorm.DB, exec sqlproxy.Executor) *Repository {
	var reader PostReader
	switch cfg.ResolveReadPath() {
	case config.ReadPathProxy:
		reader = NewSQLReader(exec)
	default:
		reader = NewORMReader(db)
	}
	logging.Info().Str("read_path", reader.Name()).Msg("post repository ready")
	return New(db, reader)
}

// ReadPath names the reader in use.
func (r *Repository) ReadPath() string {
	return r.reader.Name()
}

// Create inserts a post. Constraint violations (duplicate slug) come back
// as the driver reports them.
func (r *Repository) Create(ctx context.Context, in models.NewPost) (*models.Post, error) {
	post := models.Post{
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		CoverImage:  in.CoverImage,
		AuthorID:    in.AuthorID,
		PublishedAt: in.PublishedAt,
	}
	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		logging.Error().Err(err).Str("slug", in.Slug).Msg("Failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// GetAll lists every post, newest publication first and drafts last.
func (r *Repository) GetAll(ctx context.Context) ([]models.PostWithRelations, error) {
	posts, err := r.reader.ListPosts(ctx)
	if err != nil {
		logging.Error().Err(err).Str("read_path", r.reader.Name()).Msg("Failed to fetch all posts")
		return nil, fmt.Errorf("list posts: %w", err)
	}
	sortPosts(posts)
	return posts, nil
}

// GetByID returns ErrNotFound when the id does not exist.
func (r *Repository) GetByID(ctx context.Context, id uint) (*models.PostWithRelations, error) {
	post, err := r.reader.FindByID(ctx, id)
	return r.found(post, err, "id", fmt.Sprint(id))
}

// GetBySlug returns ErrNotFound when the slug does not exist.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	post, err := r.reader.FindBySlug(ctx, slug)
	return r.found(post, err, "slug", slug)
}

func (r *Repository) found(post *models.PostWithRelations, err error, key, value string) (*models.PostWithRelations, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logging.Error().Err(err).Str(key, value).Str("read_path", r.reader.Name()).Msg("Failed to fetch post with relations")
		return nil, fmt.Errorf("get post by %s: %w", key, err)
	}
	return post, nil
}

// Update applies a partial update and always moves updated_at forward.
func (r *Repository) Update(ctx context.Context, id uint, in models.PostUpdate) (*models.Post, error) {
	cols := in.Columns()
	cols["updated_at"] = r.now()

	var post models.Post
	result := r.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		logging.Error().Err(result.Error).Uint("id", id).Msg("Failed to update post")
		return nil, fmt.Errorf("update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &post, nil
}

// Delete removes a post and reports whether a row was actually deleted.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		logging.Error().Err(result.Error).Uint("id", id).Msg("Failed to delete post")
		return false, fmt.Errorf("delete post: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tedblog/internal/models"
)

// ORMReader reads aggregates with gorm relation preloading.
type ORMReader struct {
	db *gorm.DB
}

func NewORMReader(db *gorm.DB) *ORMReader {
	return &ORMReader{db: db}
}

func (r *ORMReader) Name() string { return "orm" }

func (r *ORMReader) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.PostWithRelations{}).
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Comments.Author")
}

func (r *ORMReader) ListPosts(ctx context.Context) ([]models.PostWithRelations, error) {
	var posts []models.PostWithRelations
	err := r.withRelations(ctx).
		Order("published_at DESC NULLS LAST, id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	for i := range posts {
		normalize(&posts[i])
	}
	return posts, nil
}

func (r *ORMReader) FindByID(ctx context.Context, id uint) (*models.PostWithRelations, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ORMReader) FindBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *ORMReader) first(ctx context.Context, where string, arg any) (*models.PostWithRelations, error) {
	var post models.PostWithRelations
	err := r.withRelations(ctx).Where(where, arg).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	normalize(&post)
	return &post, nil
}

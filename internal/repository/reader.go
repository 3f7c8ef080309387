package repository

import (
	"context"

	"tedblog/internal/models"
)

// PostReader loads post aggregates. Implementations must return identical
// aggregates for the same database state.
type PostReader interface {
	ListPosts(ctx context.Context) ([]models.PostWithRelations, error)
	FindByID(ctx context.Context, id uint) (*models.PostWithRelations, error)
	FindBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error)
	Name() string
}

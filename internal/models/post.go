package models

import (
	"time"
)

type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt     *string    `gorm:"type:text" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	CoverImage  *string    `json:"coverImage"`
	AuthorID    uint       `gorm:"not null;index" json:"authorId"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"` // nil while the post is a draft
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewPost carries the caller-supplied fields of an insert.
type NewPost struct {
	Title       string     `json:"title" binding:"required"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `json:"content" binding:"required"`
	CoverImage  *string    `json:"coverImage"`
	AuthorID    uint       `json:"authorId" binding:"required"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// PostUpdate is a partial update. Nil fields are left alone; Unpublish
// clears PublishedAt.
type PostUpdate struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	AuthorID    *uint      `json:"authorId"`
	PublishedAt *time.Time `json:"publishedAt"`
	Unpublish   bool       `json:"unpublish"`
}

// Columns maps the set fields to column names for a gorm Updates call.
func (u PostUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Slug != nil {
		cols["slug"] = *u.Slug
	}
	if u.Excerpt != nil {
		cols["excerpt"] = *u.Excerpt
	}
	if u.Content != nil {
		cols["content"] = *u.Content
	}
	if u.CoverImage != nil {
		cols["cover_image"] = *u.CoverImage
	}
	if u.AuthorID != nil {
		cols["author_id"] = *u.AuthorID
	}
	if u.PublishedAt != nil {
		cols["published_at"] = *u.PublishedAt
	}
	if u.Unpublish {
		cols["published_at"] = nil
	}
	return cols
}

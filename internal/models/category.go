package models

import (
	"time"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;unique" json:"name"`
	Slug      string    `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostCategory is the join row between posts and categories.
type PostCategory struct {
	PostID     uint      `gorm:"primaryKey" json:"postId"`
	Post       *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CategoryID uint      `gorm:"primaryKey" json:"categoryId"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (PostCategory) TableName() string {
	return "post_categories"
}

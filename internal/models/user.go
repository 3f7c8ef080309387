package models

import (
	"time"
)

// UnknownAuthorName is shown when a post or comment references a user row
// that no longer exists.
const UnknownAuthorName = "Unknown Author"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Avatar    *string   `json:"avatar"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlaceholderUser stands in for a missing author. CreatedAt is left zero so
// that the same missing row always yields the same value.
func PlaceholderUser(id uint) *User {
	return &User{
		ID:   id,
		Name: UnknownAuthorName,
	}
}

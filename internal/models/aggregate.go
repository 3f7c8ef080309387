package models

// PostWithRelations is a post with its author, categories and comments
// resolved. Author is never nil once the repository hands it out.
type PostWithRelations struct {
	Post
	Author     *User               `gorm:"foreignKey:AuthorID" json:"author"`
	Categories []Category          `gorm:"many2many:post_categories;joinForeignKey:PostID;joinReferences:CategoryID" json:"categories"`
	Comments   []CommentWithAuthor `gorm:"foreignKey:PostID" json:"comments"`
}

func (PostWithRelations) TableName() string {
	return "posts"
}

// CommentWithAuthor is a comment with its author resolved.
type CommentWithAuthor struct {
	Comment
	Author *User `gorm:"foreignKey:AuthorID" json:"author"`
}

func (CommentWithAuthor) TableName() string {
	return "comments"
}

// HasCategory reports whether the post is filed under the named category.
func (p *PostWithRelations) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

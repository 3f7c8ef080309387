package repository

// Flat rows as the proxy returns them: snake_case columns, timestamps as
// text. Joined user columns are pointers because the joins are LEFT JOINs.

type postRow struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Excerpt     *string `json:"excerpt"`
	Content     string  `json:"content"`
	CoverImage  *string `json:"cover_image"`
	AuthorID    uint    `json:"author_id"`
	PublishedAt string  `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`

	AuthorUserID    *uint   `json:"author_user_id"`
	AuthorName      *string `json:"author_name"`
	AuthorEmail     *string `json:"author_email"`
	AuthorAvatar    *string `json:"author_avatar"`
	AuthorBio       *string `json:"author_bio"`
	AuthorCreatedAt string  `json:"author_created_at"`
}

type categoryRow struct {
	PostID    uint   `json:"post_id"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

type commentRow struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	PostID    uint   `json:"post_id"`
	AuthorID  uint   `json:"author_id"`
	CreatedAt string `json:"created_at"`

	CommentAuthorID        *uint   `json:"comment_author_id"`
	CommentAuthorName      *string `json:"comment_author_name"`
	CommentAuthorEmail     *string `json:"comment_author_email"`
	CommentAuthorAvatar    *string `json:"comment_author_avatar"`
	CommentAuthorBio       *string `json:"comment_author_bio"`
	CommentAuthorCreatedAt string  `json:"comment_author_created_at"`
}

const postColumns = `
	p.id, p.title, p.slug, p.excerpt, p.content, p.cover_image,
	p.author_id, p.published_at, p.created_at, p.updated_at,
	a.id AS author_user_id, a.name AS author_name, a.email AS author_email,
	a.avatar AS author_avatar, a.bio AS author_bio, a.created_at AS author_created_at
FROM posts p
LEFT JOIN users a ON p.author_id = a.id`

const commentColumns = `
	cm.id, cm.content, cm.post_id, cm.author_id, cm.created_at,
	a.id AS comment_author_id, a.name AS comment_author_name,
	a.email AS comment_author_email, a.avatar AS comment_author_avatar,
	a.bio AS comment_author_bio, a.created_at AS comment_author_created_at
FROM comments cm
LEFT JOIN users a ON cm.author_id = a.id`

const (
	listOrder    = "p.published_at DESC NULLS LAST, p.id ASC"
	commentOrder = "cm.created_at DESC, cm.id DESC"
)

var (
	queryAllPosts = "SELECT " + postColumns + "\nORDER BY " + listOrder

	queryAllCategories = `SELECT pc.post_id, c.id, c.name, c.slug, c.created_at
FROM post_categories pc
JOIN categories c ON pc.category_id = c.id
ORDER BY pc.post_id, c.id`

	queryAllComments = "SELECT " + commentColumns + "\nORDER BY " + commentOrder

	queryPostByID   = "SELECT " + postColumns + "\nWHERE p.id = $1"
	queryPostBySlug = "SELECT " + postColumns + "\nWHERE p.slug = $1"

	queryPostCategories = `SELECT pc.post_id, c.id, c.name, c.slug, c.created_at
FROM post_categories pc
JOIN categories c ON pc.category_id = c.id
WHERE pc.post_id = $1
ORDER BY c.id`

	queryPostComments = "SELECT " + commentColumns + "\nWHERE cm.post_id = $1\nORDER BY " + commentOrder
)

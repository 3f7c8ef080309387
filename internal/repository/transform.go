package repository

import (
	"sort"
	"time"

	"tedblog/internal/logging"
	"tedblog/internal/models"
	"tedblog/internal/utils"
)

// timestamps parses the text timestamps of one post's rows. Every failure
// is logged the same way; only the value substituted differs by field.
type timestamps struct {
	now    time.Time
	postID uint
}

// required falls back to now so the aggregate keeps a usable value.
func (ts timestamps) required(field, text string) time.Time {
	if t, ok := utils.ParseTimestamp(text); ok {
		return t
	}
	ts.flag(field, text)
	return ts.now
}

// optional stays nil for empty input (a draft has no publish time) and for
// unparseable input.
func (ts timestamps) optional(field, text string) *time.Time {
	if text == "" {
		return nil
	}
	t, ok := utils.ParseTimestamp(text)
	if !ok {
		ts.flag(field, text)
		return nil
	}
	return &t
}

func (ts timestamps) flag(field, text string) {
	logging.Warn().
		Uint("post_id", ts.postID).
		Str("field", field).
		Str("value", text).
		Msg("unparseable timestamp")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// transformPost builds one aggregate from flat rows.
func transformPost(row postRow, categories []categoryRow, comments []commentRow, now time.Time) models.PostWithRelations {
	ts := timestamps{now: now, postID: row.ID}

	post := models.PostWithRelations{
		Post: models.Post{
			ID:          row.ID,
			Title:       row.Title,
			Slug:        row.Slug,
			Excerpt:     row.Excerpt,
			Content:     row.Content,
			CoverImage:  row.CoverImage,
			AuthorID:    row.AuthorID,
			PublishedAt: ts.optional("published_at", row.PublishedAt),
			CreatedAt:   ts.required("created_at", row.CreatedAt),
			UpdatedAt:   ts.required("updated_at", row.UpdatedAt),
		},
	}

	if row.AuthorUserID != nil && *row.AuthorUserID != 0 {
		post.Author = &models.User{
			ID:        *row.AuthorUserID,
			Name:      derefString(row.AuthorName),
			Email:     derefString(row.AuthorEmail),
			Avatar:    row.AuthorAvatar,
			Bio:       row.AuthorBio,
			CreatedAt: ts.required("author.created_at", row.AuthorCreatedAt),
		}
	}

	post.Categories = make([]models.Category, 0, len(categories))
	for _, c := range categories {
		post.Categories = append(post.Categories, models.Category{
			ID:        c.ID,
			Name:      c.Name,
			Slug:      c.Slug,
			CreatedAt: ts.required("category.created_at", c.CreatedAt),
		})
	}

	post.Comments = make([]models.CommentWithAuthor, 0, len(comments))
	for _, c := range comments {
		comment := models.CommentWithAuthor{
			Comment: models.Comment{
				ID:        c.ID,
				Content:   c.Content,
				PostID:    c.PostID,
				AuthorID:  c.AuthorID,
				CreatedAt: ts.required("comment.created_at", c.CreatedAt),
			},
		}
		if c.CommentAuthorID != nil && *c.CommentAuthorID != 0 {
			comment.Author = &models.User{
				ID:        *c.CommentAuthorID,
				Name:      derefString(c.CommentAuthorName),
				Email:     derefString(c.CommentAuthorEmail),
				Avatar:    c.CommentAuthorAvatar,
				Bio:       c.CommentAuthorBio,
				CreatedAt: ts.required("comment.author.created_at", c.CommentAuthorCreatedAt),
			}
		}
		post.Comments = append(post.Comments, comment)
	}

	normalize(&post)
	return post
}

// normalize is the last step of both read paths: it fills in placeholder
// authors, drops duplicate categories, fixes category and comment order and
// moves every timestamp to UTC. A comment whose author is missing gets the
// same placeholder as the post, keyed by the post's author_id. Two paths reading the same rows must agree
// after this.
func normalize(p *models.PostWithRelations) {
	if p.Author == nil {
		p.Author = models.PlaceholderUser(p.AuthorID)
	}
	p.Author.CreatedAt = p.Author.CreatedAt.UTC()

	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.PublishedAt != nil {
		t := p.PublishedAt.UTC()
		p.PublishedAt = &t
	}

	seen := make(map[uint]bool, len(p.Categories))
	categories := make([]models.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		if c.ID == 0 || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		c.CreatedAt = c.CreatedAt.UTC()
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	p.Categories = categories

	if p.Comments == nil {
		p.Comments = []models.CommentWithAuthor{}
	}
	for i := range p.Comments {
		c := &p.Comments[i]
		if c.Author == nil {
			c.Author = models.PlaceholderUser(p.AuthorID)
		}
		c.Author.CreatedAt = c.Author.CreatedAt.UTC()
		c.CreatedAt = c.CreatedAt.UTC()
	}
	sort.SliceStable(p.Comments, func(i, j int) bool {
		a, b := p.Comments[i], p.Comments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// sortPosts orders a listing by publish time, newest first, drafts last,
// ties by id.
func sortPosts(posts []models.PostWithRelations) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishedAt, posts[j].PublishedAt
		switch {
		case a == nil && b == nil:
			return posts[i].ID < posts[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return posts[i].ID < posts[j].ID
		}
	})
}

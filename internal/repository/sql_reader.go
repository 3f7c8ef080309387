package repository

import (
	"context"
	"fmt"
	"time"

	"tedblog/internal/models"
	"tedblog/internal/sqlproxy"
	"tedblog/internal/utils"
)

// SQLReader reads aggregates with three flat statements sent through the
// query proxy and reassembles them in memory. The statements run one after
// another.
type SQLReader struct {
	exec sqlproxy.Executor
	now  func() time.Time
}

func NewSQLReader(exec sqlproxy.Executor) *SQLReader {
	return &SQLReader{exec: exec, now: time.Now}
}

func (r *SQLReader) Name() string { return "proxy" }

func (r *SQLReader) ListPosts(ctx context.Context) ([]models.PostWithRelations, error) {
	posts, err := sqlproxy.Query[postRow](ctx, r.exec, queryAllPosts)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	categories, err := sqlproxy.Query[categoryRow](ctx, r.exec, queryAllCategories)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	comments, err := sqlproxy.Query[commentRow](ctx, r.exec, queryAllComments)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	categoriesByPost := utils.GroupBy(categories, func(c categoryRow) uint { return c.PostID })
	commentsByPost := utils.GroupBy(comments, func(c commentRow) uint { return c.PostID })

	now := r.now()
	out := make([]models.PostWithRelations, 0, len(posts))
	for _, p := range posts {
		out = append(out, transformPost(p, categoriesByPost[p.ID], commentsByPost[p.ID], now))
	}
	return out, nil
}

func (r *SQLReader) FindByID(ctx context.Context, id uint) (*models.PostWithRelations, error) {
	return r.findOne(ctx, queryPostByID, id)
}

func (r *SQLReader) FindBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	return r.findOne(ctx, queryPostBySlug, slug)
}

func (r *SQLReader) findOne(ctx context.Context, query string, arg any) (*models.PostWithRelations, error) {
	posts, err := sqlproxy.Query[postRow](ctx, r.exec, query, arg)
	if err != nil {
		return nil, fmt.Errorf("fetch post: %w", err)
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	post := posts[0]

	categories, err := sqlproxy.Query[categoryRow](ctx, r.exec, queryPostCategories, post.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	comments, err := sqlproxy.Query[commentRow](ctx, r.exec, queryPostComments, post.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	out := transformPost(post, categories, comments, r.now())
	return &out, nil
}

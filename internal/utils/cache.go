package utils

import (
	"fmt"
	"html/template"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RenderCache memoizes rendered post bodies. Keys include the post's
// update time, so an edited post never hits a stale entry.
type RenderCache struct {
	lruCache *lru.Cache[string, template.HTML]
	render   func(string) template.HTML
}

// NewRenderCache creates a cache holding up to size rendered bodies.
func NewRenderCache(size int) (*RenderCache, error) {
	l, err := lru.New[string, template.HTML](size)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}
	return &RenderCache{lruCache: l, render: RenderMarkdown}, nil
}

// RenderKey builds the cache key for one revision of a post.
func RenderKey(postID uint, updatedAt time.Time) string {
	return fmt.Sprintf("post:%d:%d", postID, updatedAt.UnixNano())
}

// Render returns the cached HTML for key, rendering source on a miss.
func (c *RenderCache) Render(key, source string) template.HTML {
	if html, ok := c.lruCache.Get(key); ok {
		return html
	}
	html := c.render(source)
	c.lruCache.Add(key, html)
	return html
}

// Len reports how many bodies are cached.
func (c *RenderCache) Len() int {
	return c.lruCache.Len()
}

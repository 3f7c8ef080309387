package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tedblog/internal/services"
)

// SEOHandler serves robots.txt, sitemap.xml and rss.xml built from the
// current posts.
type SEOHandler struct {
	store PostStore
	feeds *services.FeedGenerator
}

func NewSEOHandler(store PostStore, feeds *services.FeedGenerator) *SEOHandler {
	return &SEOHandler{store: store, feeds: feeds}
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.feeds.Robots()))
}

func (h *SEOHandler) SitemapXML(c *gin.Context) {
	feeds, ok := h.build(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(feeds.Sitemap))
}

func (h *SEOHandler) RSSFeed(c *gin.Context) {
	feeds, ok := h.build(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(feeds.RSS))
}

func (h *SEOHandler) build(c *gin.Context) (services.Feeds, bool) {
	if !h.feeds.HasSiteURL() {
		return h.feeds.Build(nil), true
	}
	posts, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return services.Feeds{}, false
	}
	return h.feeds.Build(posts), true
}

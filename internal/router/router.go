package router

import (
	"github.com/gin-gonic/gin"

	"tedblog/internal/handlers"
	"tedblog/internal/middleware"
)

// Deps are the handlers and settings the routes need.
type Deps struct {
	Posts          *handlers.PostHandler
	SEO            *handlers.SEOHandler
	AdminTokenHash string
	PublicDir      string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// SEO
	r.GET("/robots.txt", d.SEO.RobotsTxt)
	r.GET("/sitemap.xml", d.SEO.SitemapXML)
	r.GET("/rss.xml", d.SEO.RSSFeed)

	// Public API
	api := r.Group("/api")
	{
		api.GET("/posts", d.Posts.List)            // listing with search, category and page
		api.GET("/posts/:slug", d.Posts.Detail)    // post by slug
		api.GET("/posts/id/:id", d.Posts.ByID)     // post by numeric id
		api.GET("/categories", d.Posts.Categories) // category names in use
	}

	// Admin API
	admin := r.Group("/api")
	admin.Use(middleware.AdminRequired(d.AdminTokenHash))
	{
		admin.POST("/posts", d.Posts.Create)
		admin.PATCH("/posts/:id", d.Posts.Update)
		admin.DELETE("/posts/:id", d.Posts.Delete)
	}

	if d.PublicDir != "" {
		r.Static("/static", d.PublicDir)
	}
}

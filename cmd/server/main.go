package main

import (
	"github.com/gin-gonic/gin"

	"tedblog/internal/config"
	"tedblog/internal/db"
	"tedblog/internal/handlers"
	"tedblog/internal/logging"
	"tedblog/internal/middleware"
	"tedblog/internal/repository"
	"tedblog/internal/router"
	"tedblog/internal/services"
	"tedblog/internal/sqlproxy"
	"tedblog/internal/utils"
)

const renderCacheSize = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize Database
	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", config.MaskDSN(cfg.DatabaseURL)).Msg("Failed to open database")
	}

	proxy := sqlproxy.NewClient(cfg.ProxyURL, cfg.ProxyTimeout)
	posts := repository.NewFromConfig(cfg, gdb, proxy)

	renders, err := utils.NewRenderCache(renderCacheSize)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create render cache")
	}
	feeds := services.NewFeedGenerator(services.Site{
		URL:         cfg.SiteURL,
		Name:        cfg.SiteName,
		Description: cfg.SiteDesc,
	})

	// Initialize Gin
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	router.RegisterRoutes(r, router.Deps{
		Posts:          handlers.NewPostHandler(posts, renders, cfg.PostsPerPage),
		SEO:            handlers.NewSEOHandler(posts, feeds),
		AdminTokenHash: cfg.AdminTokenHash,
		PublicDir:      cfg.PublicDir,
	})

	logging.Info().Str("port", cfg.Port).Str("read_path", posts.ReadPath()).Msg("TedBlog server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped")
	}
}

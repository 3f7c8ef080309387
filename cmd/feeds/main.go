// Command feeds writes robots.txt, sitemap.xml and rss.xml into the public
// directory.
package main

import (
	"context"
	"time"

	"tedblog/internal/config"
	"tedblog/internal/db"
	"tedblog/internal/logging"
	"tedblog/internal/models"
	"tedblog/internal/repository"
	"tedblog/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	gen := services.NewFeedGenerator(services.Site{
		URL:         cfg.SiteURL,
		Name:        cfg.SiteName,
		Description: cfg.SiteDesc,
	})

	var posts []models.PostWithRelations
	if gen.HasSiteURL() {
		posts = loadPosts(cfg)
	} else {
		logging.Warn().Msg("SITE_URL is not set, writing empty feeds")
	}

	if err := services.WriteFiles(cfg.PublicDir, gen.Build(posts)); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write feeds")
	}
	logging.Info().Int("posts", len(posts)).Str("dir", cfg.PublicDir).Msg("Feeds generated")
}

// loadPosts reads through gorm directly; the query proxy is not needed.
func loadPosts(cfg *config.Config) []models.PostWithRelations {
	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", config.MaskDSN(cfg.DatabaseURL)).Msg("Failed to open database")
	}
	repo := repository.New(gdb, repository.NewORMReader(gdb))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	posts, err := repo.GetAll(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load posts")
	}
	return posts
}

// Command dbproxy runs the local query proxy used by the proxy read path.
package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tedblog/internal/config"
	"tedblog/internal/logging"
	"tedblog/internal/middleware"
	"tedblog/internal/sqlproxy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create connection pool")
	}
	defer pool.Close()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	sqlproxy.NewServer(sqlproxy.PoolQuerier{Pool: pool}).Register(r)

	logging.Info().
		Str("port", cfg.ProxyPort).
		Str("database", config.MaskDSN(cfg.DatabaseURL)).
		Msg("Database proxy listening")
	if err := r.Run(":" + cfg.ProxyPort); err != nil {
		logging.Fatal().Err(err).Msg("Proxy stopped")
	}
}

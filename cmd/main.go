package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/gssecenter/retrieval-backend/internal/app"
	"github.com/gssecenter/retrieval-backend/internal/assets"
	"github.com/gssecenter/retrieval-backend/internal/db"
	"github.com/gssecenter/retrieval-backend/internal/handlers"
	"github.com/gssecenter/retrieval-backend/internal/middleware"
	"github.com/gssecenter/retrieval-backend/internal/observability"
	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
	"github.com/gssecenter/retrieval-backend/internal/platform/embedcache"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/platform/openai"
	"github.com/gssecenter/retrieval-backend/internal/repos"
	"github.com/gssecenter/retrieval-backend/internal/retrieval"
	"github.com/gssecenter/retrieval-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing (no-op unless OTEL_ENABLED is set)
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "retrieval-backend",
		Environment: cfg.LogMode,
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	if otelShutdown != nil {
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	documentRepo := repos.NewDocumentRepo(thePG, log)

	// Embedder, optionally behind the redis lookaside cache
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	var embedder embed.Embedder = openaiClient
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		embedder = embedcache.New(log, openaiClient, redis.NewClient(opts), cfg.EmbedCacheTTL)
	}

	// Vector index
	index, err := app.ResolveVectorIndex(ctx, log, cfg, embedder, documentRepo)
	if err != nil {
		log.Error("Could not init vector index", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services...")
	searchService := retrieval.NewService(log, index, documentRepo, embedder)
	assetMatcher := assets.NewMatcher(log, searchService)

	// Handlers and middleware
	log.Info("Setting up handlers...")
	searchHandler := handlers.NewSearchHandler(log, searchService)
	assetHandler := handlers.NewAssetHandler(log, assetMatcher)
	identityMiddleware := middleware.NewIdentityMiddleware(log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		SearchHandler:      searchHandler,
		AssetHandler:       assetHandler,
		IdentityMiddleware: identityMiddleware,
		AllowOrigins:       cfg.AllowOrigins,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

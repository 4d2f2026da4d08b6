package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gssecenter/retrieval-backend/internal/handlers"
	"github.com/gssecenter/retrieval-backend/internal/middleware"
)

type RouterConfig struct {
	SearchHandler      *handlers.SearchHandler
	AssetHandler       *handlers.AssetHandler
	IdentityMiddleware *middleware.IdentityMiddleware
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-User-Id", "X-User-Role", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.IdentityMiddleware.RequireIdentity())
	{
		api.POST("/search", cfg.SearchHandler.Search)
		api.POST("/assets/find", cfg.AssetHandler.Find)
	}

	return router
}

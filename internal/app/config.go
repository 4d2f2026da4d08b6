package app

import (
	"strings"
	"time"

	"github.com/gssecenter/retrieval-backend/internal/platform/envutil"
)

type Config struct {
	Port         string
	LogMode      string
	AllowOrigins []string

	VectorProvider   string
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	RedisURL      string
	EmbedCacheTTL time.Duration
}

func LoadConfig() Config {
	var origins []string
	for _, o := range strings.Split(envutil.String("ALLOW_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Config{
		Port:             envutil.String("PORT", "8080"),
		LogMode:          envutil.String("LOG_MODE", "development"),
		AllowOrigins:     origins,
		VectorProvider:   strings.ToLower(envutil.String("VECTOR_PROVIDER", "qdrant")),
		QdrantURL:        envutil.String("QDRANT_URL", ""),
		QdrantAPIKey:     envutil.String("QDRANT_API_KEY", ""),
		QdrantCollection: envutil.String("QDRANT_COLLECTION", "document_chunks"),
		RedisURL:         envutil.String("REDIS_URL", ""),
		EmbedCacheTTL:    time.Duration(envutil.Int("EMBED_CACHE_TTL", 86400)) * time.Second,
	}
}

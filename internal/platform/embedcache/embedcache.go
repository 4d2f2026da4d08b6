package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
)

const keyPrefix = "emb:"

// Cache decorates an Embedder with a redis lookaside cache keyed by the
// SHA-256 of the input text. A query embeds the same strings several times
// across retrieval strategies; the cache absorbs the repeats. Redis being
// down only costs the caching, never the embedding.
type Cache struct {
	log   *logger.Logger
	inner embed.Embedder
	rdb   *redis.Client
	ttl   time.Duration
}

func New(log *logger.Logger, inner embed.Embedder, rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		log:   log.With("service", "EmbedCache"),
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

func (c *Cache) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if c.rdb == nil {
		return c.inner.Embed(ctx, inputs)
	}

	keys := make([]string, len(inputs))
	for i, in := range inputs {
		keys[i] = cacheKey(in)
	}

	out := make([][]float32, len(inputs))
	missIdx := make([]int, 0, len(inputs))

	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("Embedding cache read failed", "error", err)
		cached = nil
	}
	for i := range inputs {
		if cached != nil && i < len(cached) {
			if s, ok := cached[i].(string); ok {
				var vec []float32
				if json.Unmarshal([]byte(s), &vec) == nil && len(vec) > 0 {
					out[i] = vec
					continue
				}
			}
		}
		missIdx = append(missIdx, i)
	}
	if len(missIdx) == 0 {
		return out, nil
	}

	missing := make([]string, len(missIdx))
	for i, idx := range missIdx {
		missing[i] = inputs[idx]
	}
	vecs, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missIdx) {
		return c.inner.Embed(ctx, inputs)
	}

	pipe := c.rdb.Pipeline()
	for i, idx := range missIdx {
		out[idx] = vecs[i]
		if raw, err := json.Marshal(vecs[i]); err == nil {
			pipe.Set(ctx, keys[idx], raw, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("Embedding cache write failed", "error", err)
	}
	return out, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

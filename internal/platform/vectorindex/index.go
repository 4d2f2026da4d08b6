package vectorindex

import (
	"context"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

// Hit is one nearest-neighbor result. Distance is the index's dissimilarity
// measure: lower means more similar. Strategy weights multiply into it before
// ranking, so exact-query hits stay ahead of normalized variants on ties.
type Hit struct {
	Chunk    domain.Chunk
	Distance float64
}

// Index is the vector similarity collaborator. Implementations own their
// embedding step; callers pass query text, not vectors.
type Index interface {
	NearestNeighbors(ctx context.Context, query string, k int) ([]Hit, error)
}

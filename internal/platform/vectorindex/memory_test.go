package vectorindex

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

// axisEmbedder maps known texts onto fixed axes so distances are exact.
type axisEmbedder struct {
	vecs map[string][]float32
}

func (a *axisEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		vec, ok := a.vecs[in]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func TestMemoryIndexNearestNeighbors(t *testing.T) {
	e := &axisEmbedder{vecs: map[string][]float32{
		"close":   {1, 0, 0},
		"partial": {1, 1, 0},
		"far":     {0, 1, 0},
		"query":   {1, 0, 0},
	}}
	idx := NewMemoryIndex(e)
	err := idx.Add(context.Background(), []domain.Chunk{
		{DocumentID: uuid.New(), Content: "far"},
		{DocumentID: uuid.New(), Content: "close"},
		{DocumentID: uuid.New(), Content: "partial"},
	})
	if err != nil {
		t.Fatalf("add: unexpected error: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("len: want=3 got=%d", idx.Len())
	}

	hits, err := idx.NearestNeighbors(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("nearest neighbors: unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits: want=2 got=%d", len(hits))
	}
	if hits[0].Chunk.Content != "close" || hits[1].Chunk.Content != "partial" {
		t.Fatalf("order: want close,partial got %q,%q", hits[0].Chunk.Content, hits[1].Chunk.Content)
	}
	if hits[0].Distance >= hits[1].Distance {
		t.Fatalf("distances not ascending: %v then %v", hits[0].Distance, hits[1].Distance)
	}
}

func TestMemoryIndexTieBreaksByInsertion(t *testing.T) {
	e := &axisEmbedder{vecs: map[string][]float32{"query": {1, 0, 0}}}
	idx := NewMemoryIndex(e)
	chunks := []domain.Chunk{
		{DocumentID: uuid.New(), Content: "first"},
		{DocumentID: uuid.New(), Content: "second"},
	}
	if err := idx.Add(context.Background(), chunks); err != nil {
		t.Fatalf("add: unexpected error: %v", err)
	}
	hits, err := idx.NearestNeighbors(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("nearest neighbors: unexpected error: %v", err)
	}
	if hits[0].Chunk.Content != "first" {
		t.Fatalf("tie-break: want insertion order, got %q first", hits[0].Chunk.Content)
	}
}

func TestMemoryIndexZeroK(t *testing.T) {
	idx := NewMemoryIndex(&axisEmbedder{})
	hits, err := idx.NearestNeighbors(context.Background(), "query", 0)
	if err != nil || hits != nil {
		t.Fatalf("zero k: want nil,nil got=%v,%v", hits, err)
	}
}

func TestMemoryIndexRequiresEmbedder(t *testing.T) {
	idx := NewMemoryIndex(nil)
	if err := idx.Add(context.Background(), []domain.Chunk{{Content: "x"}}); err == nil {
		t.Fatalf("add without embedder must fail")
	}
}

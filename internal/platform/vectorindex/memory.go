package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
)

type memoryEntry struct {
	chunk  domain.Chunk
	vector []float32
}

// MemoryIndex is a brute-force cosine index over embedded chunks, for local
// development and tests. Not suited to large corpora.
type MemoryIndex struct {
	mu       sync.RWMutex
	embedder embed.Embedder
	entries  []memoryEntry
}

func NewMemoryIndex(embedder embed.Embedder) *MemoryIndex {
	return &MemoryIndex{embedder: embedder}
}

// Add embeds and stores chunks. Order of insertion is preserved and breaks
// distance ties in NearestNeighbors.
func (m *MemoryIndex) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if m.embedder == nil {
		return fmt.Errorf("memory index: embedder required")
	}
	inputs := make([]string, len(chunks))
	for i, c := range chunks {
		inputs[i] = c.Content
	}
	vecs, err := m.embedder.Embed(ctx, inputs)
	if err != nil {
		return fmt.Errorf("memory index embed: %w", err)
	}
	if len(vecs) != len(chunks) {
		return fmt.Errorf("memory index embed: want=%d vectors got=%d", len(chunks), len(vecs))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range chunks {
		m.entries = append(m.entries, memoryEntry{chunk: c, vector: vecs[i]})
	}
	return nil
}

func (m *MemoryIndex) NearestNeighbors(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	if m.embedder == nil {
		return nil, fmt.Errorf("memory index: embedder required")
	}
	vecs, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("memory index embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("memory index embed query: got %d vectors", len(vecs))
	}
	qv := vecs[0]

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		pos int
		hit Hit
	}
	hits := make([]scored, 0, len(m.entries))
	for i, e := range m.entries {
		dist := 1 - embed.Cosine(qv, e.vector)
		hits = append(hits, scored{pos: i, hit: Hit{Chunk: e.chunk, Distance: dist}})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].hit.Distance != hits[j].hit.Distance {
			return hits[i].hit.Distance < hits[j].hit.Distance
		}
		return hits[i].pos < hits[j].pos
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = h.hit
	}
	return out, nil
}

// Len reports the number of stored chunks.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

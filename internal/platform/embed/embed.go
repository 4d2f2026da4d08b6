package embed

import (
	"context"
	"math"
	"strings"
)

// Embedder turns text into fixed-length vectors. The OpenAI client and the
// redis cache decorator implement it; tests use a deterministic stand-in.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Cosine returns the cosine similarity of two vectors, 0 when either is
// degenerate or the dimensions disagree.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Similarity scores two texts in [0,1], higher = more similar. It embeds both
// texts and takes normalized cosine similarity; when the embedder is missing
// or fails it degrades to a substring/word-overlap heuristic so a dead
// embeddings endpoint never takes retrieval down with it.
func Similarity(ctx context.Context, e Embedder, a, b string) float64 {
	if e != nil {
		vecs, err := e.Embed(ctx, []string{a, b})
		if err == nil && len(vecs) == 2 {
			cos := Cosine(vecs[0], vecs[1])
			return clamp01((cos + 1) / 2)
		}
	}
	return lexicalSimilarity(a, b)
}

func lexicalSimilarity(a, b string) float64 {
	al := strings.ToLower(strings.TrimSpace(a))
	bl := strings.ToLower(strings.TrimSpace(b))
	if al == "" || bl == "" {
		return 0
	}
	if strings.Contains(al, bl) || strings.Contains(bl, al) {
		return 0.6
	}
	aw := wordSet(al)
	bw := wordSet(bl)
	if len(aw) == 0 || len(bw) == 0 {
		return 0.3
	}
	inter := 0
	for w := range aw {
		if bw[w] {
			inter++
		}
	}
	union := len(aw) + len(bw) - inter
	if union == 0 {
		return 0.3
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(s) {
		out[w] = true
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

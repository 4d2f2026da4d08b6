package retrieval

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
	"github.com/gssecenter/retrieval-backend/internal/repos"
)

var stopWords = map[string]bool{
	"what": true, "are": true, "the": true, "for": true, "is": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "of": true, "with": true,
}

type retriever struct {
	log      *logger.Logger
	index    vectorindex.Index
	docs     repos.DocumentRepo
	embedder embed.Embedder
}

// A strategy produces its own hit slice; the merge concatenates slices in
// strategy order so equal scores tie-break deterministically.
type strategySlot struct {
	name string
	run  func(ctx context.Context) ([]vectorindex.Hit, error)
	hits []vectorindex.Hit
	err  error
}

// retrieve runs the retrieval strategies concurrently and merges hits in
// strategy-then-hit order. A failing strategy logs and contributes nothing;
// only the direct lookup's error is reported, and only so the caller can
// distinguish "index down" from "no match".
func (r *retriever) retrieve(ctx context.Context, searchQuery string, limit int) ([]vectorindex.Hit, error) {
	query := strings.TrimSpace(searchQuery)
	if query == "" || limit <= 0 {
		return nil, nil
	}

	lower := strings.ToLower(query)
	dehyphenated := strings.ReplaceAll(lower, "-", " ")
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	terms := importantTerms(query)

	slots := []*strategySlot{
		{name: "direct", run: r.lookup(query, directKMultiplier*limit, 1.0)},
	}
	if dehyphenated != lower {
		slots = append(slots, &strategySlot{name: "dehyphenated", run: r.lookup(dehyphenated, directKMultiplier*limit, normalizedQueryWeight)})
	}
	if hyphenated != lower {
		slots = append(slots, &strategySlot{name: "hyphenated", run: r.lookup(hyphenated, directKMultiplier*limit, normalizedQueryWeight)})
	}
	termLookups := terms
	if len(termLookups) > maxTermLookups {
		termLookups = termLookups[:maxTermLookups]
	}
	for _, term := range termLookups {
		slots = append(slots, &strategySlot{name: "term:" + term, run: r.lookup(term, termKMultiplier*limit, singleTermWeight)})
	}
	slots = append(slots, &strategySlot{name: "filename_scan", run: func(ctx context.Context) ([]vectorindex.Hit, error) {
		return r.filenameScan(ctx, terms)
	}})

	g, gctx := errgroup.WithContext(ctx)
	for _, slot := range slots {
		slot := slot
		g.Go(func() error {
			slot.hits, slot.err = slot.run(gctx)
			return nil
		})
	}
	_ = g.Wait()

	var merged []vectorindex.Hit
	vectorHits := 0
	for _, slot := range slots {
		if slot.err != nil {
			r.log.Warn("Retrieval strategy failed", "strategy", slot.name, "error", slot.err)
			continue
		}
		merged = append(merged, slot.hits...)
		if slot.name != "filename_scan" {
			vectorHits += len(slot.hits)
		}
	}

	// When every vector strategy came back empty the filename-scan hits all
	// carry the same flat pseudo-distance; re-score them against the query so
	// ranking still means something. Falls back to lexical overlap when the
	// embedder is unavailable.
	if vectorHits == 0 && len(merged) > 0 {
		for i := range merged {
			sim := embed.Similarity(ctx, r.embedder, query, merged[i].Chunk.Content)
			merged[i].Distance = 1 - sim
		}
	}

	return merged, slots[0].err
}

func (r *retriever) lookup(query string, k int, weight float64) func(ctx context.Context) ([]vectorindex.Hit, error) {
	return func(ctx context.Context) ([]vectorindex.Hit, error) {
		if r.index == nil {
			return nil, nil
		}
		hits, err := r.index.NearestNeighbors(ctx, query, k)
		if err != nil {
			return nil, err
		}
		if weight != 1.0 {
			for i := range hits {
				hits[i].Distance *= weight
			}
		}
		return hits, nil
	}
}

// filenameScan pulls chunks from documents whose filename mentions a longer
// query term, bypassing vector similarity. Catches documents the user names
// directly even when their embedding is a poor match.
func (r *retriever) filenameScan(ctx context.Context, terms []string) ([]vectorindex.Hit, error) {
	if r.docs == nil {
		return nil, nil
	}
	var scanTerms []string
	for _, t := range terms {
		if len(t) > minFilenameScanTermLen {
			scanTerms = append(scanTerms, t)
		}
	}
	if len(scanTerms) == 0 {
		return nil, nil
	}

	docs, err := r.docs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var hits []vectorindex.Hit
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		filename := strings.ToLower(doc.Filename)
		if filename == "" || !containsAnyTerm(filename, scanTerms) {
			continue
		}
		chunks, err := r.docs.ChunksByDocument(ctx, doc.ID, maxChunksPerScannedDoc)
		if err != nil {
			r.log.Debug("Filename scan chunk load failed", "document_id", doc.ID, "error", err)
			continue
		}
		for _, ch := range chunks {
			if ch == nil || strings.TrimSpace(ch.Content) == "" {
				continue
			}
			hits = append(hits, vectorindex.Hit{
				Chunk: domain.Chunk{
					DocumentID:   doc.ID,
					OwnerID:      doc.OwnerID,
					Content:      ch.Content,
					Filename:     doc.Filename,
					Title:        doc.Title,
					Tags:         doc.TagList(),
					IsPublic:     doc.IsPublic,
					AllowedRoles: doc.RoleList(),
				},
				Distance: filenameScanScore,
			})
		}
	}
	return hits, nil
}

func containsAnyTerm(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// importantTerms extracts the content-bearing words of a query: normalized,
// longer than the threshold, not a stop word, first occurrence wins.
func importantTerms(query string) []string {
	normalized := strings.ReplaceAll(strings.ToLower(query), "-", " ")
	var out []string
	seen := map[string]bool{}
	for _, term := range strings.Fields(normalized) {
		if len(term) <= minImportantTermLen || stopWords[term] || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}

package retrieval

import (
	"sort"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

// Diversify selects the final result set within the budget. Three passes:
//  1. every chunk of a boosted document, best score first — a document whose
//     name or tags match the query is never crowded out by generic
//     high-similarity chunks from unrelated documents;
//  2. round-robin across non-boosted documents so one large document cannot
//     monopolize an ambiguous query's results;
//  3. backfill by score from whatever remains.
//
// The output is re-sorted by score once at the end since the passes
// interleave documents.
func Diversify(chunks []domain.ScoredChunk, limit int) []domain.ScoredChunk {
	if len(chunks) == 0 || limit <= 0 {
		return nil
	}

	byDoc := map[uuid.UUID][]domain.ScoredChunk{}
	docOrder := make([]uuid.UUID, 0, len(chunks))
	boostedDocs := map[uuid.UUID]bool{}
	for _, sc := range chunks {
		id := sc.Chunk.DocumentID
		if _, ok := byDoc[id]; !ok {
			docOrder = append(docOrder, id)
		}
		byDoc[id] = append(byDoc[id], sc)
		if sc.Boosted {
			boostedDocs[id] = true
		}
	}

	selected := make([]domain.ScoredChunk, 0, limit)
	selectedKeys := map[string]bool{}
	take := func(sc domain.ScoredChunk) bool {
		if len(selected) >= limit {
			return false
		}
		selected = append(selected, sc)
		selectedKeys[sc.DedupeKey()] = true
		return true
	}

	// Pass 1: boosted documents, pooled and sorted best-first.
	var boostedPool []domain.ScoredChunk
	for _, id := range docOrder {
		if boostedDocs[id] {
			boostedPool = append(boostedPool, byDoc[id]...)
		}
	}
	sortByScore(boostedPool)
	for _, sc := range boostedPool {
		if !take(sc) {
			break
		}
	}

	// Pass 2: spread remaining budget across non-boosted documents.
	var nonBoosted []uuid.UUID
	for _, id := range docOrder {
		if !boostedDocs[id] {
			nonBoosted = append(nonBoosted, id)
		}
	}
	if len(nonBoosted) > 0 && len(selected) < limit {
		perDoc := (limit - len(selected)) / len(nonBoosted)
		if perDoc < 1 {
			perDoc = 1
		}
		for _, id := range nonBoosted {
			docChunks := append([]domain.ScoredChunk(nil), byDoc[id]...)
			sortByScore(docChunks)
			for i, sc := range docChunks {
				if i >= perDoc {
					break
				}
				if !take(sc) {
					break
				}
			}
			if len(selected) >= limit {
				break
			}
		}
	}

	// Pass 3: backfill by score, skipping already-selected content.
	if len(selected) < limit {
		var remaining []domain.ScoredChunk
		for _, id := range docOrder {
			for _, sc := range byDoc[id] {
				if !selectedKeys[sc.DedupeKey()] {
					remaining = append(remaining, sc)
				}
			}
		}
		sortByScore(remaining)
		for _, sc := range remaining {
			if !take(sc) {
				break
			}
		}
	}

	sortByScore(selected)
	return selected
}

func sortByScore(chunks []domain.ScoredChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score < chunks[j].Score
	})
}

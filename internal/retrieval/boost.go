package retrieval

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
)

// BoostAndDedupe collapses duplicate chunks and applies the document-level
// relevance boosts. Boosts only subtract from the distance score, so a
// chunk's rank can improve but never degrade relative to its raw similarity.
func BoostAndDedupe(hits []vectorindex.Hit, searchQuery string, previouslyUsed map[uuid.UUID]bool) []domain.ScoredChunk {
	if len(hits) == 0 {
		return nil
	}
	terms := queryTerms(searchQuery)

	seen := map[string]bool{}
	out := make([]domain.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		sc := domain.ScoredChunk{Chunk: hit.Chunk, Score: hit.Distance, RawScore: hit.Distance}
		key := sc.DedupeKey()
		if seen[key] {
			continue
		}
		seen[key] = true

		boost := filenameBoost(hit.Chunk.Filename, terms) +
			titleBoost(hit.Chunk.Title, terms) +
			tagBoost(hit.Chunk.Tags, terms)
		sc.Score -= boost

		if previouslyUsed[hit.Chunk.DocumentID] {
			sc.Score -= continuityBoost
			sc.Boosted = true
		}
		if sc.RawScore-sc.Score > boostEpsilon {
			sc.Boosted = true
		}
		out = append(out, sc)
	}
	return out
}

func filenameBoost(filename string, terms []string) float64 {
	f := strings.ToLower(filename)
	if f == "" || len(terms) == 0 {
		return 0
	}
	if phraseMatch(f, terms) {
		return filenamePhraseBoost
	}
	return overlapBoost(f, terms, filenameStrongBoost, filenamePartialSlope)
}

func titleBoost(title string, terms []string) float64 {
	t := strings.ToLower(title)
	if t == "" || len(terms) == 0 {
		return 0
	}
	if phraseMatch(t, terms) {
		return titlePhraseBoost
	}
	return overlapBoost(t, terms, titleStrongBoost, titlePartialSlope)
}

func tagBoost(tags []string, terms []string) float64 {
	if len(tags) == 0 || len(terms) == 0 {
		return 0
	}
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			lowered = append(lowered, t)
		}
	}
	matching := 0
	for _, term := range terms {
		for _, tag := range lowered {
			if strings.Contains(tag, term) {
				matching++
				break
			}
		}
	}
	if matching == 0 {
		return 0
	}
	ratio := float64(matching) / float64(len(terms))
	if ratio >= strongMatchRatio {
		return tagStrongBoost
	}
	return tagPartialSlope * ratio
}

func overlapBoost(text string, terms []string, strong, slope float64) float64 {
	matching := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			matching++
		}
	}
	if matching == 0 {
		return 0
	}
	ratio := float64(matching) / float64(len(terms))
	if ratio >= strongMatchRatio {
		return strong
	}
	return slope * ratio
}

// phraseMatch reports whether every query term appears as a whole word, which
// only counts for multi-term queries.
func phraseMatch(text string, terms []string) bool {
	if len(terms) < 2 {
		return false
	}
	words := map[string]bool{}
	for _, w := range strings.Fields(text) {
		words[w] = true
	}
	for _, term := range terms {
		if !words[term] {
			return false
		}
	}
	return true
}

func queryTerms(searchQuery string) []string {
	normalized := strings.ReplaceAll(strings.ToLower(searchQuery), "-", " ")
	var out []string
	seen := map[string]bool{}
	for _, term := range strings.Fields(normalized) {
		if len(term) <= minTopicKeywordLen || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}

package assets

import "strings"

// suggestionScore ranks a chunk that failed the precise ladder. Each signal
// contributes the fraction of query terms it covers, weighted by how
// deliberate that signal is: tags are curated, product names derived,
// filenames incidental, vector similarity last. A query term appearing in
// the filename floors the score above the suggestion threshold so topical
// documents survive even when other signals are silent.
func suggestionScore(terms []string, facts documentFacts, rawDistance float64) float64 {
	if len(terms) == 0 {
		return 0
	}

	score := tagWeight*coverage(terms, func(term string) bool {
		for _, tag := range facts.Tags {
			if strings.Contains(tag, term) || strings.Contains(term, tag) {
				return true
			}
		}
		return false
	}) + productWeight*coverage(terms, func(term string) bool {
		return facts.Product != "" && strings.Contains(facts.Product, term)
	}) + filenameWeight*coverage(terms, func(term string) bool {
		return facts.FilenameNorm != "" && strings.Contains(facts.FilenameNorm, term)
	}) + vectorWeight*vectorComponent(rawDistance)

	if filenameHit(terms, facts.FilenameNorm) && score < suggestionThreshold+filenameFloorBoost {
		score = suggestionThreshold + filenameFloorBoost
	}
	if score > 1 {
		score = 1
	}
	return score
}

func coverage(terms []string, match func(string) bool) float64 {
	hits := 0
	for _, term := range terms {
		if match(term) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}

// vectorComponent converts a distance (lower = more similar) into a bounded
// similarity contribution.
func vectorComponent(rawDistance float64) float64 {
	sim := 1 - rawDistance
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func filenameHit(terms []string, filename string) bool {
	if filename == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(filename, term) {
			return true
		}
	}
	return false
}

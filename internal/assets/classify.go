package assets

import "strings"

// matchesPrecisely decides whether a chunk is an exact answer to the query,
// as opposed to a scored suggestion. The ladder runs in order of trust:
// acronym table, product name, tags, filename, title. The first rung that
// fires wins; nothing below it is consulted.
func matchesPrecisely(query string, facts documentFacts) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	terms := queryTerms(q)

	if acronymMatch(q, facts) {
		return true
	}
	if productMatch(q, terms, facts.Product) {
		return true
	}
	if tagMatch(q, terms, facts.Tags) {
		return true
	}
	if filenameMatch(terms, facts.FilenameNorm) {
		return true
	}
	return titleMatch(terms, facts.Title)
}

// acronymMatch resolves known product acronyms: a query equal to the acronym
// or to any of its spoken variants matches when any variant appears in the
// document's tags, product name, or filename.
func acronymMatch(q string, facts documentFacts) bool {
	for acronym, variants := range productAcronyms {
		applies := q == acronym
		for _, v := range variants {
			if q == v {
				applies = true
				break
			}
		}
		if !applies {
			continue
		}
		for _, v := range variants {
			for _, tag := range facts.Tags {
				if strings.Contains(tag, v) {
					return true
				}
			}
			if facts.Product != "" && strings.Contains(facts.Product, v) {
				return true
			}
			if facts.FilenameNorm != "" && strings.Contains(facts.FilenameNorm, v) {
				return true
			}
		}
	}
	return false
}

func productMatch(q string, terms []string, product string) bool {
	if product == "" {
		return false
	}
	if q == product || strings.Contains(product, q) || strings.Contains(q, product) {
		return true
	}
	words := strings.Fields(product)
	if len(terms) == 1 {
		return wordOrSubstringMatch(terms[0], words)
	}
	for _, term := range terms {
		if !strings.Contains(product, term) {
			return false
		}
	}
	return len(terms) > 0
}

func tagMatch(q string, terms []string, tags []string) bool {
	for _, tag := range tags {
		if tag == q || strings.Contains(tag, q) || strings.Contains(q, tag) {
			return true
		}
	}
	if len(terms) == 0 {
		return false
	}
	if len(terms) == 1 {
		for _, tag := range tags {
			if strings.Contains(tag, terms[0]) || wordOrSubstringMatch(terms[0], strings.Fields(tag)) {
				return true
			}
		}
		return false
	}
	for _, term := range terms {
		covered := false
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func filenameMatch(terms []string, filename string) bool {
	if filename == "" || len(terms) == 0 {
		return false
	}
	words := strings.Fields(filename)
	for _, term := range terms {
		if !wordOrSubstringMatch(term, words) && !strings.Contains(filename, term) {
			return false
		}
	}
	return true
}

func titleMatch(terms []string, title string) bool {
	if title == "" || len(terms) == 0 {
		return false
	}
	words := strings.Fields(title)
	for _, term := range terms {
		if !wordOrSubstringMatch(term, words) {
			return false
		}
	}
	return true
}

func wordOrSubstringMatch(term string, words []string) bool {
	for _, w := range words {
		if w == term || strings.Contains(w, term) {
			return true
		}
	}
	return false
}

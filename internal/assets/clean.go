package assets

import (
	"regexp"
	"strings"
)

// Ordered removal patterns: generation phrasing first, then request
// phrasing, then punctuation cleanup. Order matters — "please generate a
// demo video regarding EVE" must reduce to "eve", not "regarding eve".
var generationPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)please\s+generate\s+(a\s+)?(demo\s+)?(video\s+)?(regarding\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)generate\s+(a\s+)?(demo\s+)?(video\s+)?(regarding\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)create\s+(a\s+)?(demo\s+)?(video\s+)?(regarding\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)make\s+(a\s+)?(demo\s+)?(video\s+)?(regarding\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)(demo\s+)?video\s+(about|regarding|for|on)\s+`),
	regexp.MustCompile(`(?i)^please\s+`),
	regexp.MustCompile(`(?i)\s+demo\s+video\s*$`),
	regexp.MustCompile(`(?i)\s+video\s*$`),
}

var requestPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^give\s+(re:?\s*)?(me\s+)?`),
	regexp.MustCompile(`(?i)^show\s+(me\s+)?`),
	regexp.MustCompile(`(?i)^find\s+(me\s+)?(a\s+)?(demo\s+)?(video\s+)?(for\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)^get\s+(me\s+)?(a\s+)?(demo\s+)?(video\s+)?(for\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)^i\s+want\s+(a\s+)?(demo\s+)?(video\s+)?(for\s+)?(about\s+)?`),
	regexp.MustCompile(`(?i)^can\s+you\s+(give|show|find|get)\s+(me\s+)?(a\s+)?(demo\s+)?(video\s+)?(for\s+)?(about\s+)?`),
}

var nonWordChars = regexp.MustCompile(`[^\w\s-]`)

// Clean strips generation/request phrasing from an asset-lookup query,
// leaving the bare topic: "please generate a demo video regarding EVE"
// becomes "eve". An unrecognized query passes through lowercased.
func Clean(query string) string {
	cleaned := strings.ToLower(strings.TrimSpace(query))
	for _, p := range generationPhrases {
		cleaned = p.ReplaceAllString(cleaned, "")
	}
	for _, p := range requestPhrases {
		cleaned = p.ReplaceAllString(cleaned, "")
	}
	cleaned = nonWordChars.ReplaceAllString(cleaned, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// queryTerms splits a cleaned query into matchable terms. Terms shorter than
// the threshold are dropped unless the whole query is that short — "eve"
// must still match even though "ai" inside a longer query would not.
func queryTerms(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, term := range strings.Fields(q) {
		if len(term) > minQueryTermLen {
			out = append(out, term)
		}
	}
	if len(out) == 0 && q != "" {
		out = []string{q}
	}
	return out
}

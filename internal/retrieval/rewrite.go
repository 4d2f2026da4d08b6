package retrieval

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

// RewriteResult is the effective search input derived from the literal query
// and the conversation so far. SearchQuery drives retrieval; the literal
// query still belongs to the answer-composition layer upstream.
type RewriteResult struct {
	SearchQuery             string
	PreviouslyUsedDocuments map[uuid.UUID]bool
	TopicKeywords           []string
}

// Imperative follow-ups ("save it as a doc") refer to the previously
// discussed topic, not to the verb itself.
var actionPhrases = []string{
	"save as", "save it as", "create", "generate", "make", "convert to",
	"export as", "download as", "turn into",
}

var acknowledgements = map[string]bool{
	"yes": true, "no": true, "ok": true, "thanks": true, "thank you": true,
}

// Filename words too generic to anchor a follow-up query.
var genericFilenameWords = map[string]bool{
	"study": true, "guide": true, "demo": true, "script": true,
	"deck": true, "document": true,
}

var contentTypeHints = map[string]string{
	"doc":     "document report information",
	"ppt":     "presentation slides content",
	"mp4":     "demo video tutorial",
	"podcast": "dialogue conversation interview",
	"speech":  "monologue speech talking points",
}

// Rewrite derives the effective search query from the literal query, the
// recent conversation, and an optional content-type hint. Malformed or
// missing history degrades to the literal query with empty sets; it never
// fails.
func Rewrite(query string, history []domain.ConversationTurn, contentType string) RewriteResult {
	base := strings.TrimSpace(query)
	if hint, ok := contentTypeHints[strings.ToLower(strings.TrimSpace(contentType))]; ok && base != "" {
		base = base + " " + hint
	}

	out := RewriteResult{
		SearchQuery:             base,
		PreviouslyUsedDocuments: map[uuid.UUID]bool{},
	}
	if base == "" {
		return out
	}

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	// Cited sources from assistant turns keep follow-ups anchored to the
	// documents already in play.
	var topicKeywords []string
	for i := len(recent) - 1; i >= 0; i-- {
		turn := recent[i]
		if turn.Role != domain.RoleAssistant || turn.Metadata == nil {
			continue
		}
		for _, src := range turn.Metadata.Sources {
			if src.DocumentID != uuid.Nil {
				out.PreviouslyUsedDocuments[src.DocumentID] = true
			}
			topicKeywords = append(topicKeywords, filenameKeywords(src.Filename)...)
		}
	}

	// The most recent substantial user message carries the topic.
	lastSubstantial := ""
	for i := len(recent) - 1; i >= 0; i-- {
		turn := recent[i]
		if turn.Role != domain.RoleUser {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if isSubstantial(content) {
			lastSubstantial = content
			break
		}
	}
	if lastSubstantial != "" {
		for _, w := range strings.Fields(strings.ToLower(lastSubstantial)) {
			if len(w) > minTopicKeywordLen {
				topicKeywords = append(topicKeywords, w)
			}
		}
	}
	out.TopicKeywords = uniqueStrings(topicKeywords)

	if isActionRequest(base) && len(history) > 0 {
		if lastSubstantial != "" {
			out.SearchQuery = lastSubstantial
		}
		return out
	}

	if len(out.TopicKeywords) > 0 {
		extra := out.TopicKeywords
		if len(extra) > maxTopicKeywords {
			extra = extra[:maxTopicKeywords]
		}
		out.SearchQuery = base + " " + strings.Join(extra, " ")
	}
	return out
}

func isActionRequest(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, phrase := range actionPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

func isSubstantial(content string) bool {
	if len(content) <= substantialMessageLen {
		return false
	}
	return !acknowledgements[strings.ToLower(content)]
}

func filenameKeywords(filename string) []string {
	f := strings.ToLower(strings.TrimSpace(filename))
	if f == "" {
		return nil
	}
	f = strings.NewReplacer(".", " ", "-", " ", "_", " ").Replace(f)
	var out []string
	for _, w := range strings.Fields(f) {
		if len(w) > minTopicKeywordLen && !genericFilenameWords[w] {
			out = append(out, w)
		}
	}
	return out
}

func uniqueStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

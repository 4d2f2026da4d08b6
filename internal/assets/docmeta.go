package assets

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

// documentFacts is the per-chunk view the match ladder and the suggestion
// scorer both read: every field lowercased once up front.
type documentFacts struct {
	Tags         []string
	Product      string
	FilenameNorm string
	Title        string
}

var tagsLine = regexp.MustCompile(`(?m)TAGS:\s*(.+)`)

var demoVideoSuffix = regexp.MustCompile(`(?i)\s*demo\s*video\s*$`)

func factsFor(c domain.Chunk) documentFacts {
	return documentFacts{
		Tags:         combinedTags(c),
		Product:      productName(c.Content, c.Filename),
		FilenameNorm: normalizeFilename(c.Filename),
		Title:        strings.ToLower(strings.TrimSpace(c.Title)),
	}
}

// combinedTags merges metadata tags with any TAGS: line embedded in the
// chunk text. Duplicates collapse case-insensitively.
func combinedTags(c domain.Chunk) []string {
	var out []string
	seen := map[string]bool{}
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		out = append(out, tag)
	}
	for _, tag := range c.Tags {
		add(tag)
	}
	if m := tagsLine.FindStringSubmatch(c.Content); m != nil {
		for _, tag := range strings.Split(m[1], ",") {
			add(tag)
		}
	}
	return out
}

// productName derives the product a chunk describes. Documents authored for
// the demo library open with a "Category | Product Name" heading; older ones
// carry a short title line naming a known product. The filename stem is the
// fallback when the text gives nothing.
func productName(content, filename string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > productScanLines {
		lines = lines[:productScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(strings.ToUpper(line), "TAGS:") {
			continue
		}
		if strings.Contains(line, "|") && len(line) < 200 {
			parts := strings.Split(line, "|")
			candidate := strings.TrimSpace(parts[len(parts)-1])
			candidate = demoVideoSuffix.ReplaceAllString(candidate, "")
			candidate = strings.TrimSpace(candidate)
			if len(candidate) > 3 {
				return strings.ToLower(candidate)
			}
		}
		if len(line) > 5 && len(line) < 150 {
			lower := strings.ToLower(line)
			for _, indicator := range productIndicators {
				if strings.Contains(lower, indicator) {
					lower = demoVideoSuffix.ReplaceAllString(lower, "")
					return strings.TrimSpace(lower)
				}
			}
		}
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = demoVideoSuffix.ReplaceAllString(stem, "")
	stem = strings.TrimSpace(strings.ToLower(stem))
	if len(stem) > 3 {
		return stem
	}
	return ""
}

func normalizeFilename(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.ToLower(strings.TrimSpace(stem))
}

package assets

import (
	"regexp"
	"strings"
)

// videoLink is one YouTube reference found inside chunk text, resolved to
// canonical watch and embed URLs regardless of which form the author pasted.
type videoLink struct {
	VideoID  string
	URL      string
	EmbedURL string
}

// All URL shapes seen in ingested documents: full watch links, short links,
// embed links, and scheme-less copies of either. Video ids are [A-Za-z0-9_-].
var videoLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/watch\?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/embed/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)(?:^|[^/\w])(?:www\.)?youtube\.com/watch\?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)(?:^|[^/\w])(?:www\.)?youtu\.be/([A-Za-z0-9_-]+)`),
}

// extractLinks finds every video link in content, deduplicated by video id in
// first-appearance order.
func extractLinks(content string) []videoLink {
	var out []videoLink
	seen := map[string]bool{}
	for _, p := range videoLinkPatterns {
		for _, m := range p.FindAllStringSubmatch(content, -1) {
			id := m[1]
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, videoLink{
				VideoID:  id,
				URL:      "https://www.youtube.com/watch?v=" + id,
				EmbedURL: "https://www.youtube.com/embed/" + id,
			})
		}
	}
	return out
}

var linkLabelPrefixes = []string{"video:", "demo:", "link:", "watch:", "view:", "-", "•", "*"}

// linkStart locates the beginning of the URL token carrying a video id, so
// the surrounding-text heuristics never pick up fragments of the URL itself.
func linkStart(content, videoID string) int {
	pos := strings.Index(strings.ToLower(content), strings.ToLower(videoID))
	if pos < 0 {
		return -1
	}
	for pos > 0 {
		c := content[pos-1]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		pos--
	}
	return pos
}

// titleNearLink pulls a human title for a video from the text immediately
// before its link: the label line right above it, or failing that the last
// sentence of the preceding window.
func titleNearLink(content, videoID string) string {
	pos := linkStart(content, videoID)
	if pos < 0 {
		return ""
	}
	start := pos - descriptionWindow
	if start < 0 {
		start = 0
	}
	before := content[start:pos]

	lines := strings.Split(before, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		for _, prefix := range linkLabelPrefixes {
			if strings.HasPrefix(strings.ToLower(line), prefix) {
				line = strings.TrimSpace(line[len(prefix):])
			}
		}
		// Skip the line holding the link itself.
		if line == "" || strings.Contains(strings.ToLower(line), "youtu") {
			continue
		}
		if len(line) > 5 && len(line) < 150 {
			return line
		}
		break
	}

	sentences := strings.FieldsFunc(before, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	if len(sentences) > 0 {
		last := strings.TrimSpace(sentences[len(sentences)-1])
		if len(last) > 10 && len(last) < 150 {
			return last
		}
	}
	return ""
}

// descriptionNearLink returns the text window around the link, or the start
// of the content when the link cannot be located. Capped and ellipsized.
func descriptionNearLink(content, videoID string) string {
	pos := linkStart(content, videoID)
	var window string
	if pos >= 0 {
		start := pos - descriptionWindow
		if start < 0 {
			start = 0
		}
		end := pos + descriptionWindow
		if end > len(content) {
			end = len(content)
		}
		window = content[start:end]
	} else {
		window = content
	}
	window = strings.Join(strings.Fields(window), " ")
	if len(window) > descriptionMax {
		window = window[:descriptionMax] + "..."
	}
	return window
}

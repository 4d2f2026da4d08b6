package assets

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/retrieval"
)

type FindRequest struct {
	Query    string
	UserID   uuid.UUID
	UserRole string
	Limit    int
}

// FindResponse is either a precise answer or a suggestion list, never both.
type FindResponse struct {
	Status       string              `json:"status"`
	Assets       []domain.AssetMatch `json:"assets"`
	Message      string              `json:"message"`
	IsSuggestion bool                `json:"is_suggestion"`
}

// Matcher resolves natural-language asset requests ("find me the EVE demo
// video") to deep links embedded in document text.
type Matcher interface {
	Find(ctx context.Context, req FindRequest) (FindResponse, error)
}

type matcher struct {
	log    *logger.Logger
	search retrieval.Service
}

func NewMatcher(log *logger.Logger, search retrieval.Service) Matcher {
	return &matcher{
		log:    log.With("service", "AssetMatcher"),
		search: search,
	}
}

type suggestion struct {
	chunk domain.ScoredChunk
	links []videoLink
	score float64
}

func (m *matcher) Find(ctx context.Context, req FindRequest) (FindResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	cleaned := Clean(req.Query)
	searchQuery := cleaned
	if searchQuery == "" {
		searchQuery = req.Query
	}
	if cleaned != "" && cleaned != req.Query {
		m.log.Info("Asset query cleaned", "query", req.Query, "cleaned", cleaned)
	}

	res, err := m.search.Search(ctx, retrieval.SearchRequest{
		Query:    searchQuery,
		UserID:   req.UserID,
		UserRole: req.UserRole,
		Limit:    limit * candidateMultiplier,
	})
	if err != nil {
		return FindResponse{}, fmt.Errorf("asset search: %w", err)
	}
	if len(res.Chunks) == 0 {
		return notFound(req.Query), nil
	}

	// Candidates best-first so the first precise match is also the closest.
	candidates := append([]domain.ScoredChunk(nil), res.Chunks...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})

	terms := queryTerms(searchQuery)
	var precise []domain.AssetMatch
	var suggestions []suggestion
	seenVideos := map[string]bool{}

	for _, sc := range candidates {
		links := extractLinks(sc.Chunk.Content)
		if len(links) == 0 {
			continue
		}
		facts := factsFor(sc.Chunk)

		if matchesPrecisely(searchQuery, facts) {
			for _, link := range links {
				if seenVideos[link.VideoID] {
					continue
				}
				seenVideos[link.VideoID] = true
				precise = append(precise, m.buildAsset(sc, link, sc.Score, false))
				if len(precise) >= limit {
					break
				}
			}
			if len(precise) >= limit {
				break
			}
			continue
		}

		if score := suggestionScore(terms, facts, sc.RawScore); score > suggestionThreshold {
			suggestions = append(suggestions, suggestion{chunk: sc, links: links, score: score})
		}
	}

	if len(precise) > 0 {
		m.log.Info("Precise asset match",
			"query", req.Query,
			"matches", len(precise),
		)
		noun := "asset"
		if len(precise) != 1 {
			noun = "assets"
		}
		return FindResponse{
			Status:  "success",
			Assets:  precise,
			Message: fmt.Sprintf("Found %d %s matching '%s'", len(precise), noun, req.Query),
		}, nil
	}

	if len(suggestions) > 0 {
		// Higher suggestion score first; ties broken by vector closeness.
		sort.SliceStable(suggestions, func(i, j int) bool {
			if suggestions[i].score != suggestions[j].score {
				return suggestions[i].score > suggestions[j].score
			}
			return suggestions[i].chunk.RawScore < suggestions[j].chunk.RawScore
		})
		var assets []domain.AssetMatch
		for _, sug := range suggestions {
			for _, link := range sug.links {
				if seenVideos[link.VideoID] {
					continue
				}
				seenVideos[link.VideoID] = true
				assets = append(assets, m.buildAsset(sug.chunk, link, sug.score, true))
				if len(assets) >= limit {
					break
				}
			}
			if len(assets) >= limit {
				break
			}
		}
		if len(assets) > 0 {
			m.log.Info("Suggesting related assets",
				"query", req.Query,
				"suggestions", len(assets),
			)
			return FindResponse{
				Status:       "success",
				Assets:       assets,
				Message:      "Perhaps you are referring to these related assets:",
				IsSuggestion: true,
			}, nil
		}
	}

	m.log.Info("No asset match", "query", req.Query)
	return notFound(req.Query), nil
}

func (m *matcher) buildAsset(sc domain.ScoredChunk, link videoLink, relevance float64, isSuggestion bool) domain.AssetMatch {
	title := titleNearLink(sc.Chunk.Content, link.VideoID)
	if title == "" {
		title = sc.Chunk.Title
	}
	if title == "" {
		title = sc.Chunk.Filename
	}
	return domain.AssetMatch{
		AssetID:          link.VideoID,
		URL:              link.URL,
		EmbedURL:         link.EmbedURL,
		Title:            title,
		Description:      descriptionNearLink(sc.Chunk.Content, link.VideoID),
		SourceDocumentID: sc.Chunk.DocumentID,
		SourceFilename:   sc.Chunk.Filename,
		RelevanceScore:   relevance,
		IsSuggestion:     isSuggestion,
	}
}

func notFound(query string) FindResponse {
	return FindResponse{
		Status:  "success",
		Assets:  []domain.AssetMatch{},
		Message: fmt.Sprintf("No assets found matching '%s'", query),
	}
}

package assets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/retrieval"
)

type fakeSearch struct {
	lastReq retrieval.SearchRequest
	result  domain.RetrievalResult
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, req retrieval.SearchRequest) (domain.RetrievalResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func eveChunk() domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{
			DocumentID: uuid.New(),
			Content: "Network Security | Encrypted Visibility Engine Demo Video\n" +
				"Video: EVE Detection Walkthrough\n" +
				"https://youtu.be/abc123\n" +
				"The engine fingerprints encrypted sessions without decryption.",
			Filename: "EVE_Demo_Video.docx",
			IsPublic: true,
		},
		Score:    0.25,
		RawScore: 0.25,
	}
}

func TestFindPreciseMatch(t *testing.T) {
	search := &fakeSearch{result: domain.RetrievalResult{Chunks: []domain.ScoredChunk{eveChunk()}}}
	m := NewMatcher(logger.NewNop(), search)

	resp, err := m.Find(context.Background(), FindRequest{
		Query:  "Please generate a demo video regarding EVE",
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("find: unexpected error: %v", err)
	}
	if search.lastReq.Query != "eve" {
		t.Fatalf("search query: want=%q got=%q", "eve", search.lastReq.Query)
	}
	if resp.IsSuggestion {
		t.Fatalf("precise match must not be a suggestion")
	}
	if len(resp.Assets) != 1 {
		t.Fatalf("assets: want=1 got=%d", len(resp.Assets))
	}
	asset := resp.Assets[0]
	if asset.AssetID != "abc123" {
		t.Fatalf("asset id: want=%q got=%q", "abc123", asset.AssetID)
	}
	if asset.URL != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("asset url: got=%q", asset.URL)
	}
	if asset.EmbedURL != "https://www.youtube.com/embed/abc123" {
		t.Fatalf("embed url: got=%q", asset.EmbedURL)
	}
	if asset.IsSuggestion {
		t.Fatalf("precise asset flagged as suggestion")
	}
	if !strings.Contains(resp.Message, "Found 1 asset") {
		t.Fatalf("message: got=%q", resp.Message)
	}
}

func TestFindNoCandidates(t *testing.T) {
	search := &fakeSearch{result: domain.RetrievalResult{Message: "no matching content found"}}
	m := NewMatcher(logger.NewNop(), search)

	resp, err := m.Find(context.Background(), FindRequest{Query: "show me nonexistent topic"})
	if err != nil {
		t.Fatalf("find: unexpected error: %v", err)
	}
	if len(resp.Assets) != 0 {
		t.Fatalf("assets: want=0 got=%d", len(resp.Assets))
	}
	if resp.IsSuggestion {
		t.Fatalf("empty result must not be a suggestion")
	}
	if !strings.Contains(resp.Message, "No assets found") {
		t.Fatalf("message: got=%q", resp.Message)
	}
}

func TestFindSuggestionFallback(t *testing.T) {
	chunk := domain.ScoredChunk{
		Chunk: domain.Chunk{
			DocumentID: uuid.New(),
			Content:    "General notes mentioning containment workflows.\nhttps://youtu.be/vid001",
			Filename:   "threat_containment_notes.docx",
			IsPublic:   true,
		},
		Score:    0.5,
		RawScore: 0.5,
	}
	search := &fakeSearch{result: domain.RetrievalResult{Chunks: []domain.ScoredChunk{chunk}}}
	m := NewMatcher(logger.NewNop(), search)

	resp, err := m.Find(context.Background(), FindRequest{Query: "containment playbook video"})
	if err != nil {
		t.Fatalf("find: unexpected error: %v", err)
	}
	if !resp.IsSuggestion {
		t.Fatalf("want suggestion response, got message=%q assets=%d", resp.Message, len(resp.Assets))
	}
	if len(resp.Assets) != 1 {
		t.Fatalf("assets: want=1 got=%d", len(resp.Assets))
	}
	if !resp.Assets[0].IsSuggestion {
		t.Fatalf("suggestion asset not flagged")
	}
	if !strings.Contains(resp.Message, "Perhaps you are referring") {
		t.Fatalf("message: got=%q", resp.Message)
	}
}

func TestFindPreciseAndSuggestionExclusive(t *testing.T) {
	precise := eveChunk()
	related := domain.ScoredChunk{
		Chunk: domain.Chunk{
			DocumentID: uuid.New(),
			Content:    "Encrypted traffic analysis overview.\nhttps://youtu.be/vid002",
			Filename:   "encrypted_traffic_overview.docx",
			IsPublic:   true,
		},
		Score:    0.6,
		RawScore: 0.6,
	}
	search := &fakeSearch{result: domain.RetrievalResult{Chunks: []domain.ScoredChunk{related, precise}}}
	m := NewMatcher(logger.NewNop(), search)

	resp, err := m.Find(context.Background(), FindRequest{Query: "eve"})
	if err != nil {
		t.Fatalf("find: unexpected error: %v", err)
	}
	if resp.IsSuggestion {
		t.Fatalf("precise match must suppress suggestions")
	}
	for _, a := range resp.Assets {
		if a.IsSuggestion {
			t.Fatalf("mixed precise and suggestion assets in one response")
		}
		if a.AssetID == "vid002" {
			t.Fatalf("non-matching asset included alongside precise match")
		}
	}
}

func TestFindChunksWithoutLinksIgnored(t *testing.T) {
	chunk := eveChunk()
	chunk.Chunk.Content = "Encrypted Visibility Engine overview with no links at all."
	search := &fakeSearch{result: domain.RetrievalResult{Chunks: []domain.ScoredChunk{chunk}}}
	m := NewMatcher(logger.NewNop(), search)

	resp, err := m.Find(context.Background(), FindRequest{Query: "eve"})
	if err != nil {
		t.Fatalf("find: unexpected error: %v", err)
	}
	if len(resp.Assets) != 0 {
		t.Fatalf("linkless chunks must yield no assets: got=%d", len(resp.Assets))
	}
}

func TestFindSearchErrorSurfaces(t *testing.T) {
	search := &fakeSearch{err: errors.New("backend down")}
	m := NewMatcher(logger.NewNop(), search)

	if _, err := m.Find(context.Background(), FindRequest{Query: "eve"}); err == nil {
		t.Fatalf("search error must surface")
	}
}

func TestFindDuplicateVideosCollapsed(t *testing.T) {
	a := eveChunk()
	b := eveChunk()
	b.Score, b.RawScore = 0.3, 0.3
	search := &fakeSearch{result: domain.RetrievalResult{Chunks: []domain.ScoredChunk{a, b}}}
	m := NewMatcher(logger.NewNop(), search)

	resp, err := m.Find(context.Background(), FindRequest{Query: "eve"})
	if err != nil {
		t.Fatalf("find: unexpected error: %v", err)
	}
	if len(resp.Assets) != 1 {
		t.Fatalf("duplicate video ids must collapse: got=%d", len(resp.Assets))
	}
}

package qdrant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func testIndex(rt roundTripFunc) *index {
	cfg := Config{URL: "http://qdrant.test:6333", APIKey: "secret", Collection: "document_chunks"}
	return &index{
		log:      logger.NewNop(),
		cfg:      cfg,
		baseURL:  cfg.URL,
		embedder: fixedEmbedder{},
		http:     &http.Client{Transport: rt, Timeout: 5 * time.Second},
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestNearestNeighbors(t *testing.T) {
	docID := uuid.New()
	ownerID := uuid.New()
	idx := testIndex(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/collections/document_chunks/points/search" {
			t.Fatalf("path: got=%s", req.URL.Path)
		}
		if key := req.Header.Get("api-key"); key != "secret" {
			t.Fatalf("api-key header: got=%q", key)
		}
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["limit"].(float64) != 5 {
			t.Fatalf("limit: want=5 got=%v", body["limit"])
		}
		if body["with_payload"] != true {
			t.Fatalf("with_payload missing")
		}
		return jsonResponse(200, `{"result":[{
			"score": 0.92,
			"payload": {
				"document_id": "`+docID.String()+`",
				"owner_id": "`+ownerID.String()+`",
				"content": "chunk text",
				"filename": "eve_demo_video.docx",
				"title": "EVE Demo",
				"tags": ["eve", "network security"],
				"is_public": true,
				"allowed_roles": ["analyst"]
			}
		}]}`), nil
	})

	hits, err := idx.NearestNeighbors(context.Background(), "eve", 5)
	if err != nil {
		t.Fatalf("nearest neighbors: unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits: want=1 got=%d", len(hits))
	}
	h := hits[0]
	if h.Chunk.DocumentID != docID || h.Chunk.OwnerID != ownerID {
		t.Fatalf("ids not mapped: got=%+v", h.Chunk)
	}
	if diff := h.Distance - 0.08; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("distance: want=0.08 got=%v", h.Distance)
	}
	if !h.Chunk.IsPublic || len(h.Chunk.Tags) != 2 || len(h.Chunk.AllowedRoles) != 1 {
		t.Fatalf("payload not mapped: got=%+v", h.Chunk)
	}
}

func TestNearestNeighborsSkipsMalformedPayload(t *testing.T) {
	idx := testIndex(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"result":[
			{"score": 0.9, "payload": {"document_id": "not-a-uuid", "content": "x"}},
			{"score": 0.8, "payload": null}
		]}`), nil
	})
	hits, err := idx.NearestNeighbors(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("nearest neighbors: unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("malformed payloads must be skipped: got=%d", len(hits))
	}
}

func TestNearestNeighborsServerError(t *testing.T) {
	idx := testIndex(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(503, `{"status":{"error":"overloaded"}}`), nil
	})
	if _, err := idx.NearestNeighbors(context.Background(), "q", 5); err == nil {
		t.Fatalf("server error must surface")
	}
}

func TestNearestNeighborsZeroK(t *testing.T) {
	idx := testIndex(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected for k=0")
		return nil, nil
	})
	hits, err := idx.NearestNeighbors(context.Background(), "q", 0)
	if err != nil || hits != nil {
		t.Fatalf("zero k: want nil,nil got=%v,%v", hits, err)
	}
}

func TestValidateConfig(t *testing.T) {
	good := Config{URL: "http://localhost:6333", Collection: "chunks"}
	if err := ValidateConfig(good); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := ValidateConfig(Config{Collection: "chunks"}); err == nil {
		t.Fatalf("missing url must fail")
	}
	if err := ValidateConfig(Config{URL: "http://localhost:6333"}); err == nil {
		t.Fatalf("missing collection must fail")
	}
}

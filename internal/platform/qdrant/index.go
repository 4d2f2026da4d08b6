package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
)

const maxErrorBodyBytes = 1024

// Payload keys written by the ingestion pipeline; retrieval only reads them.
const (
	payloadDocumentID   = "document_id"
	payloadOwnerID      = "owner_id"
	payloadContent      = "content"
	payloadFilename     = "filename"
	payloadTitle        = "title"
	payloadTags         = "tags"
	payloadIsPublic     = "is_public"
	payloadAllowedRoles = "allowed_roles"
)

type index struct {
	log      *logger.Logger
	cfg      Config
	baseURL  string
	embedder embed.Embedder
	http     *http.Client
}

// NewIndex builds a Qdrant-backed vectorindex.Index. The query is embedded
// via the supplied embedder and searched against a collection whose payloads
// carry the chunk metadata.
func NewIndex(log *logger.Logger, cfg Config, embedder embed.Embedder) (vectorindex.Index, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	s := &index{
		log:      log.With("service", "QdrantIndex"),
		cfg:      cfg,
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		embedder: embedder,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if err := s.verifyReady(context.Background()); err != nil {
		return nil, err
	}
	log.Info("Qdrant index ready",
		"url", s.baseURL,
		"collection", cfg.Collection,
	)
	return s, nil
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

type searchResultItem struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

func (s *index) NearestNeighbors(ctx context.Context, query string, k int) ([]vectorindex.Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("qdrant embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("qdrant embed query: got %d vectors", len(vecs))
	}

	body := map[string]any{
		"vector":       vecs[0],
		"limit":        k,
		"with_payload": true,
	}
	var items []searchResultItem
	if err := s.do(ctx, http.MethodPost, "/collections/"+s.cfg.Collection+"/points/search", body, &items); err != nil {
		return nil, err
	}

	hits := make([]vectorindex.Hit, 0, len(items))
	for _, item := range items {
		chunk, ok := chunkFromPayload(item.Payload)
		if !ok {
			continue
		}
		// Qdrant similarity is higher-better; the pipeline ranks by distance.
		hits = append(hits, vectorindex.Hit{Chunk: chunk, Distance: 1 - item.Score})
	}
	return hits, nil
}

func chunkFromPayload(payload map[string]any) (domain.Chunk, bool) {
	if payload == nil {
		return domain.Chunk{}, false
	}
	docID, err := uuid.Parse(stringValue(payload[payloadDocumentID]))
	if err != nil || docID == uuid.Nil {
		return domain.Chunk{}, false
	}
	ownerID, _ := uuid.Parse(stringValue(payload[payloadOwnerID]))
	return domain.Chunk{
		DocumentID:   docID,
		OwnerID:      ownerID,
		Content:      stringValue(payload[payloadContent]),
		Filename:     stringValue(payload[payloadFilename]),
		Title:        stringValue(payload[payloadTitle]),
		Tags:         stringListValue(payload[payloadTags]),
		IsPublic:     boolValue(payload[payloadIsPublic]),
		AllowedRoles: stringListValue(payload[payloadAllowedRoles]),
	}, true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringListValue(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func (s *index) verifyReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var out json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/collections/"+s.cfg.Collection, nil, &out); err != nil {
		return fmt.Errorf("qdrant collection check failed: %w", err)
	}
	return nil
}

func (s *index) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qdrant marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("qdrant request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key := strings.TrimSpace(s.cfg.APIKey); key != "" {
		req.Header.Set("api-key", key)
	}

	res, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, path, res.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("qdrant decode: %w", err)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("qdrant decode result: %w", err)
	}
	return nil
}

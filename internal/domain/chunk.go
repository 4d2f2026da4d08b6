package domain

import "github.com/google/uuid"

// Chunk is the atomic unit of retrieval: one bounded slice of a document's
// extracted text plus the metadata the ranking heuristics need. It is built
// per query from vector index payloads or the metadata store and never
// written back.
type Chunk struct {
	DocumentID   uuid.UUID
	OwnerID      uuid.UUID
	Content      string
	Filename     string
	Title        string
	Tags         []string
	IsPublic     bool
	AllowedRoles []string
}

// ScoredChunk carries a chunk through the ranking pipeline. RawScore is the
// strategy-weighted distance from the vector index (lower = more similar);
// Score starts equal to RawScore and only ever decreases as boosts apply.
type ScoredChunk struct {
	Chunk    Chunk
	Score    float64
	RawScore float64
	Boosted  bool
}

// DedupeKey identifies a chunk for duplicate collapsing: document id plus the
// first 50 characters of content. Two strategies returning the same chunk at
// different scores collapse to the first occurrence.
func (s ScoredChunk) DedupeKey() string {
	prefix := s.Chunk.Content
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}
	return s.Chunk.DocumentID.String() + "|" + prefix
}

// RetrievalResult is the ordered, bounded answer handed to the caller.
// Degraded marks total vector index unavailability; the caller may still
// attempt an answer without grounding.
type RetrievalResult struct {
	Chunks   []ScoredChunk
	Degraded bool
	Message  string
}

package domain

import "github.com/google/uuid"

// AssetMatch is one deep-linked asset (a video embedded in document text)
// returned by the asset matcher. Created per query, never persisted.
type AssetMatch struct {
	AssetID          string    `json:"asset_id"`
	URL              string    `json:"url"`
	EmbedURL         string    `json:"embed_url"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	SourceDocumentID uuid.UUID `json:"source_document_id"`
	SourceFilename   string    `json:"source_filename"`
	RelevanceScore   float64   `json:"relevance_score"`
	IsSuggestion     bool      `json:"is_suggestion"`
}

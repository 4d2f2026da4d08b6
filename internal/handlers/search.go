package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/requestdata"
	"github.com/gssecenter/retrieval-backend/internal/retrieval"
)

type SearchHandler struct {
	log    *logger.Logger
	search retrieval.Service
}

func NewSearchHandler(log *logger.Logger, search retrieval.Service) *SearchHandler {
	return &SearchHandler{log: log.With("Handler", "SearchHandler"), search: search}
}

type searchTurn struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Metadata struct {
		Sources []struct {
			DocumentID string `json:"document_id"`
			Filename   string `json:"filename"`
		} `json:"sources"`
	} `json:"metadata"`
}

type searchRequest struct {
	Query                   string       `json:"query"`
	Limit                   int          `json:"limit"`
	ContentType             string       `json:"content_type"`
	History                 []searchTurn `json:"history"`
	PreviouslyUsedDocuments []string     `json:"previously_used_documents"`
}

type searchChunk struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	RawScore   float64 `json:"raw_score"`
	Boosted    bool    `json:"boosted"`
}

type searchResponse struct {
	Chunks   []searchChunk `json:"chunks"`
	Degraded bool          `json:"degraded"`
	Message  string        `json:"message,omitempty"`
}

func (h *SearchHandler) Search(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request identity"))
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Query == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", fmt.Errorf("query is required"))
		return
	}

	history := make([]domain.ConversationTurn, 0, len(req.History))
	for _, t := range req.History {
		turn := domain.ConversationTurn{Role: t.Role, Content: t.Content}
		var sources []domain.CitedSource
		for _, src := range t.Metadata.Sources {
			id, err := uuid.Parse(src.DocumentID)
			if err != nil {
				continue
			}
			sources = append(sources, domain.CitedSource{
				DocumentID: id,
				Filename:   src.Filename,
			})
		}
		if len(sources) > 0 {
			turn.Metadata = &domain.TurnMetadata{Sources: sources}
		}
		history = append(history, turn)
	}
	var prevDocs []uuid.UUID
	for _, raw := range req.PreviouslyUsedDocuments {
		if id, err := uuid.Parse(raw); err == nil {
			prevDocs = append(prevDocs, id)
		}
	}

	result, err := h.search.Search(c.Request.Context(), retrieval.SearchRequest{
		Query:              req.Query,
		UserID:             rd.UserID,
		UserRole:           rd.Role,
		Limit:              req.Limit,
		ContentType:        req.ContentType,
		History:            history,
		PreviouslyUsedDocs: prevDocs,
	})
	if err != nil {
		h.log.Error("Search failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	resp := searchResponse{
		Chunks:   make([]searchChunk, 0, len(result.Chunks)),
		Degraded: result.Degraded,
		Message:  result.Message,
	}
	for _, sc := range result.Chunks {
		resp.Chunks = append(resp.Chunks, searchChunk{
			DocumentID: sc.Chunk.DocumentID.String(),
			Filename:   sc.Chunk.Filename,
			Title:      sc.Chunk.Title,
			Content:    sc.Chunk.Content,
			Score:      sc.Score,
			RawScore:   sc.RawScore,
			Boosted:    sc.Boosted,
		})
	}
	RespondOK(c, resp)
}

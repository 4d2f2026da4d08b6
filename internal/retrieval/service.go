package retrieval

import (
	"context"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
	"github.com/gssecenter/retrieval-backend/internal/repos"
)

type SearchRequest struct {
	Query              string
	UserID             uuid.UUID
	UserRole           string
	Limit              int
	ContentType        string
	History            []domain.ConversationTurn
	PreviouslyUsedDocs []uuid.UUID
}

// Service is the retrieval primitive shared by the chat layer and the asset
// matcher: rewrite, retrieve, boost, filter, diversify.
type Service interface {
	Search(ctx context.Context, req SearchRequest) (domain.RetrievalResult, error)
}

type service struct {
	log       *logger.Logger
	retriever *retriever
}

func NewService(log *logger.Logger, index vectorindex.Index, docs repos.DocumentRepo, embedder embed.Embedder) Service {
	svcLog := log.With("service", "RetrievalService")
	return &service{
		log: svcLog,
		retriever: &retriever{
			log:      svcLog,
			index:    index,
			docs:     docs,
			embedder: embedder,
		},
	}
}

func (s *service) Search(ctx context.Context, req SearchRequest) (domain.RetrievalResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	role := req.UserRole
	if role == "" {
		role = domain.RoleDefault
	}

	rw := Rewrite(req.Query, req.History, req.ContentType)
	if rw.SearchQuery != req.Query {
		s.log.Info("Search query rewritten",
			"query", req.Query,
			"search_query", rw.SearchQuery,
		)
	}
	previouslyUsed := rw.PreviouslyUsedDocuments
	for _, id := range req.PreviouslyUsedDocs {
		if id != uuid.Nil {
			previouslyUsed[id] = true
		}
	}

	hits, directErr := s.retriever.retrieve(ctx, rw.SearchQuery, limit)
	if len(hits) == 0 {
		if directErr != nil {
			// Total collaborator unavailability degrades to an empty result
			// so the caller can still attempt an ungrounded answer.
			s.log.Error("Retrieval unavailable", "query", req.Query, "error", directErr)
			return domain.RetrievalResult{
				Degraded: true,
				Message:  "search backend unavailable; no passages retrieved",
			}, nil
		}
		s.log.Warn("No chunks found", "query", req.Query, "search_query", rw.SearchQuery)
		return domain.RetrievalResult{Message: "no matching content found"}, nil
	}

	scored := BoostAndDedupe(hits, rw.SearchQuery, previouslyUsed)
	visible := FilterVisible(scored, req.UserID, role)
	selected := Diversify(visible, limit)

	if len(selected) == 0 {
		s.log.Warn("All candidates filtered out",
			"query", req.Query,
			"candidates", len(scored),
		)
		return domain.RetrievalResult{Message: "no matching content found"}, nil
	}

	s.log.Info("Search completed",
		"query", req.Query,
		"candidates", len(scored),
		"visible", len(visible),
		"returned", len(selected),
	)
	for i, sc := range selected {
		if i >= 5 {
			break
		}
		s.log.Debug("Search hit",
			"rank", i+1,
			"filename", sc.Chunk.Filename,
			"score", sc.Score,
			"raw_score", sc.RawScore,
			"boosted", sc.Boosted,
		)
	}

	return domain.RetrievalResult{Chunks: selected}, nil
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/requestdata"
	"github.com/gssecenter/retrieval-backend/internal/retrieval"
)

type fakeSearchService struct {
	lastReq retrieval.SearchRequest
	result  domain.RetrievalResult
	err     error
}

func (f *fakeSearchService) Search(ctx context.Context, req retrieval.SearchRequest) (domain.RetrievalResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func searchRouter(svc retrieval.Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID: userID,
			Role:   "analyst",
		})
		c.Request = c.Request.WithContext(ctx)
	})
	router.POST("/api/search", NewSearchHandler(logger.NewNop(), svc).Search)
	return router
}

func TestSearchHandler(t *testing.T) {
	docID := uuid.New()
	svc := &fakeSearchService{result: domain.RetrievalResult{
		Chunks: []domain.ScoredChunk{{
			Chunk: domain.Chunk{
				DocumentID: docID,
				Filename:   "eve_demo.docx",
				Title:      "EVE Demo",
				Content:    "chunk body",
			},
			Score:    0.1,
			RawScore: 0.5,
			Boosted:  true,
		}},
	}}
	userID := uuid.New()
	router := searchRouter(svc, userID)

	body := `{"query":"eve","limit":5,"content_type":"doc",
		"history":[{"role":"assistant","content":"...","metadata":{"sources":[{"document_id":"` + docID.String() + `","filename":"eve_demo.docx"}]}}],
		"previously_used_documents":["` + docID.String() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.lastReq.UserID != userID || svc.lastReq.UserRole != "analyst" {
		t.Fatalf("identity not forwarded: %+v", svc.lastReq)
	}
	if svc.lastReq.Limit != 5 || svc.lastReq.ContentType != "doc" {
		t.Fatalf("request fields not forwarded: %+v", svc.lastReq)
	}
	if len(svc.lastReq.History) != 1 || svc.lastReq.History[0].Metadata == nil {
		t.Fatalf("history not forwarded: %+v", svc.lastReq.History)
	}
	if len(svc.lastReq.PreviouslyUsedDocs) != 1 || svc.lastReq.PreviouslyUsedDocs[0] != docID {
		t.Fatalf("previously used docs not forwarded: %+v", svc.lastReq.PreviouslyUsedDocs)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Chunks) != 1 {
		t.Fatalf("chunks: want=1 got=%d", len(resp.Chunks))
	}
	got := resp.Chunks[0]
	if got.DocumentID != docID.String() || !got.Boosted || got.Score != 0.1 || got.RawScore != 0.5 {
		t.Fatalf("chunk mapping: got=%+v", got)
	}
}

func TestSearchHandlerMissingQuery(t *testing.T) {
	router := searchRouter(&fakeSearchService{}, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"limit":5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", rec.Code)
	}
}

func TestSearchHandlerInvalidDocIDsSkipped(t *testing.T) {
	svc := &fakeSearchService{}
	router := searchRouter(svc, uuid.New())
	body := `{"query":"q","previously_used_documents":["garbage"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if len(svc.lastReq.PreviouslyUsedDocs) != 0 {
		t.Fatalf("invalid ids must be skipped: %+v", svc.lastReq.PreviouslyUsedDocs)
	}
}

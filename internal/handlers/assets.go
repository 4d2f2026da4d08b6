package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gssecenter/retrieval-backend/internal/assets"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/requestdata"
)

type AssetHandler struct {
	log     *logger.Logger
	matcher assets.Matcher
}

func NewAssetHandler(log *logger.Logger, matcher assets.Matcher) *AssetHandler {
	return &AssetHandler{log: log.With("Handler", "AssetHandler"), matcher: matcher}
}

type findAssetsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (h *AssetHandler) Find(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request identity"))
		return
	}

	var req findAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Query == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", fmt.Errorf("query is required"))
		return
	}

	resp, err := h.matcher.Find(c.Request.Context(), assets.FindRequest{
		Query:    req.Query,
		UserID:   rd.UserID,
		UserRole: rd.Role,
		Limit:    req.Limit,
	})
	if err != nil {
		h.log.Error("Asset lookup failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "asset_lookup_failed", err)
		return
	}
	RespondOK(c, resp)
}

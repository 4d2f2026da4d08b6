package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/requestdata"
)

type IdentityMiddleware struct {
	log *logger.Logger
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("Middleware", "IdentityMiddleware")}
}

// RequireIdentity reads the caller identity the API gateway injects. The
// user id must parse; the role falls back to the least-privileged default so
// a missing header can only narrow visibility, never widen it.
func (im *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader("X-User-Id")
		if rawID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
			return
		}
		userID, err := uuid.Parse(rawID)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-Id header"})
			return
		}
		role := c.GetHeader("X-User-Role")
		if role == "" {
			role = domain.RoleDefault
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID: userID,
			Role:   role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

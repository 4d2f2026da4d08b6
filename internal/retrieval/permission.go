package retrieval

import (
	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

// FilterVisible drops chunks the requesting user may not see. It must run
// before diversification so invisible content never occupies result budget.
// Drops are silent; the caller cannot distinguish "filtered" from "absent".
func FilterVisible(chunks []domain.ScoredChunk, userID uuid.UUID, role string) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, 0, len(chunks))
	for _, sc := range chunks {
		if canSee(sc.Chunk, userID, role) {
			out = append(out, sc)
		}
	}
	return out
}

func canSee(c domain.Chunk, userID uuid.UUID, role string) bool {
	if c.IsPublic {
		return true
	}
	if userID != uuid.Nil && c.OwnerID == userID {
		return true
	}
	if role == "" {
		return false
	}
	for _, allowed := range c.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

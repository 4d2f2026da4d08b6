package retrieval

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
)

func scored(c domain.Chunk) domain.ScoredChunk {
	return domain.ScoredChunk{Chunk: c, Score: 0.5, RawScore: 0.5}
}

func TestFilterVisible(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	public := scored(domain.Chunk{DocumentID: uuid.New(), Content: "pub", IsPublic: true})
	owned := scored(domain.Chunk{DocumentID: uuid.New(), Content: "own", OwnerID: owner})
	roleGated := scored(domain.Chunk{DocumentID: uuid.New(), Content: "role", AllowedRoles: []string{"analyst"}})
	private := scored(domain.Chunk{DocumentID: uuid.New(), Content: "priv", OwnerID: stranger})

	chunks := []domain.ScoredChunk{public, owned, roleGated, private}

	cases := []struct {
		name   string
		userID uuid.UUID
		role   string
		want   []string
	}{
		{"owner sees own and public", owner, "user", []string{"pub", "own"}},
		{"analyst sees role gated", uuid.New(), "analyst", []string{"pub", "role"}},
		{"stranger sees only public", uuid.New(), "user", []string{"pub"}},
		{"anonymous sees only public", uuid.Nil, "", []string{"pub"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterVisible(chunks, tc.userID, tc.role)
			if len(got) != len(tc.want) {
				t.Fatalf("visible count: want=%d got=%d", len(tc.want), len(got))
			}
			for i, sc := range got {
				if sc.Chunk.Content != tc.want[i] {
					t.Fatalf("visible[%d]: want=%q got=%q", i, tc.want[i], sc.Chunk.Content)
				}
			}
		})
	}
}

func TestFilterVisibleNilOwnerNeverMatchesNilUser(t *testing.T) {
	// A row with no owner must not leak to an anonymous caller.
	chunk := scored(domain.Chunk{DocumentID: uuid.New(), Content: "orphan"})
	got := FilterVisible([]domain.ScoredChunk{chunk}, uuid.Nil, "user")
	if len(got) != 0 {
		t.Fatalf("orphan chunk visible to anonymous user: got=%d", len(got))
	}
}

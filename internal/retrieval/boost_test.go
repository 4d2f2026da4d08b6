package retrieval

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
)

func hit(docID uuid.UUID, content, filename string, distance float64) vectorindex.Hit {
	return vectorindex.Hit{
		Chunk: domain.Chunk{
			DocumentID: docID,
			Content:    content,
			Filename:   filename,
		},
		Distance: distance,
	}
}

func TestBoostNeverWorsensScore(t *testing.T) {
	hits := []vectorindex.Hit{
		hit(uuid.New(), "content about hypershield", "hypershield_overview.docx", 0.4),
		hit(uuid.New(), "unrelated content", "other.docx", 0.6),
	}
	out := BoostAndDedupe(hits, "hypershield deployment", nil)
	for _, sc := range out {
		if sc.Score > sc.RawScore {
			t.Fatalf("boosted score above raw: raw=%v score=%v", sc.RawScore, sc.Score)
		}
	}
}

func TestBoostFilenameMatch(t *testing.T) {
	matched := uuid.New()
	other := uuid.New()
	hits := []vectorindex.Hit{
		hit(other, "generic text", "unrelated_notes.docx", 0.5),
		hit(matched, "generic text two", "hypershield_deployment.docx", 0.5),
	}
	out := BoostAndDedupe(hits, "hypershield deployment", nil)
	if len(out) != 2 {
		t.Fatalf("chunks: want=2 got=%d", len(out))
	}
	var matchedScore, otherScore float64
	var matchedBoosted bool
	for _, sc := range out {
		if sc.Chunk.DocumentID == matched {
			matchedScore = sc.Score
			matchedBoosted = sc.Boosted
		} else {
			otherScore = sc.Score
		}
	}
	if matchedScore >= otherScore {
		t.Fatalf("filename match should rank better: matched=%v other=%v", matchedScore, otherScore)
	}
	if !matchedBoosted {
		t.Fatalf("filename match should be flagged boosted")
	}
}

func TestBoostPhraseBeatsPartial(t *testing.T) {
	phrase := uuid.New()
	partial := uuid.New()
	hits := []vectorindex.Hit{
		hit(partial, "a", "hypershield notes.docx", 0.5),
		hit(phrase, "b", "hypershield deployment guide.docx", 0.5),
	}
	out := BoostAndDedupe(hits, "hypershield deployment", nil)
	var phraseScore, partialScore float64
	for _, sc := range out {
		if sc.Chunk.DocumentID == phrase {
			phraseScore = sc.Score
		} else {
			partialScore = sc.Score
		}
	}
	if phraseScore >= partialScore {
		t.Fatalf("phrase match should outrank partial: phrase=%v partial=%v", phraseScore, partialScore)
	}
}

func TestBoostContinuity(t *testing.T) {
	docID := uuid.New()
	hits := []vectorindex.Hit{hit(docID, "follow-up content", "plain.docx", 0.5)}
	out := BoostAndDedupe(hits, "zzz unmatched query", map[uuid.UUID]bool{docID: true})
	if len(out) != 1 {
		t.Fatalf("chunks: want=1 got=%d", len(out))
	}
	want := 0.5 - continuityBoost
	if diff := out[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("continuity score: want=%v got=%v", want, out[0].Score)
	}
	if !out[0].Boosted {
		t.Fatalf("continuity should flag boosted")
	}
}

func TestBoostDedupeFirstWins(t *testing.T) {
	docID := uuid.New()
	hits := []vectorindex.Hit{
		hit(docID, "same chunk text repeated by two strategies", "f.docx", 0.3),
		hit(docID, "same chunk text repeated by two strategies", "f.docx", 0.9),
	}
	out := BoostAndDedupe(hits, "nothing relevant", nil)
	if len(out) != 1 {
		t.Fatalf("deduped chunks: want=1 got=%d", len(out))
	}
	if out[0].RawScore != 0.3 {
		t.Fatalf("first occurrence should win: want=0.3 got=%v", out[0].RawScore)
	}
}

func TestBoostTagMatch(t *testing.T) {
	tagged := uuid.New()
	plain := uuid.New()
	hits := []vectorindex.Hit{
		{Chunk: domain.Chunk{DocumentID: plain, Content: "a"}, Distance: 0.5},
		{Chunk: domain.Chunk{DocumentID: tagged, Content: "b", Tags: []string{"firewall", "management"}}, Distance: 0.5},
	}
	out := BoostAndDedupe(hits, "firewall management basics", nil)
	var taggedScore, plainScore float64
	for _, sc := range out {
		if sc.Chunk.DocumentID == tagged {
			taggedScore = sc.Score
		} else {
			plainScore = sc.Score
		}
	}
	if taggedScore >= plainScore {
		t.Fatalf("tag match should rank better: tagged=%v plain=%v", taggedScore, plainScore)
	}
}

func TestBoostEmptyInput(t *testing.T) {
	if out := BoostAndDedupe(nil, "query", nil); out != nil {
		t.Fatalf("empty input: want nil got=%v", out)
	}
}

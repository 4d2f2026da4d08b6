package app

import (
	"context"
	"fmt"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/embed"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
	"github.com/gssecenter/retrieval-backend/internal/platform/qdrant"
	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
	"github.com/gssecenter/retrieval-backend/internal/repos"
)

// memorySeedChunksPerDoc bounds how much of a document the in-process index
// loads. Memory mode exists for development and tests, not full corpora.
const memorySeedChunksPerDoc = 200

// ResolveVectorIndex picks the vector index backend. "qdrant" talks to a
// running cluster; "memory" embeds the stored chunks into an in-process
// index at startup. Either way the index comes back wrapped with tracing
// around every query.
func ResolveVectorIndex(
	ctx context.Context,
	log *logger.Logger,
	cfg Config,
	embedder embed.Embedder,
	docs repos.DocumentRepo,
) (vectorindex.Index, error) {
	switch cfg.VectorProvider {
	case "qdrant", "":
		qcfg := qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		}
		if err := qdrant.ValidateConfig(qcfg); err != nil {
			return nil, fmt.Errorf("vector provider %q: %w", cfg.VectorProvider, err)
		}
		idx, err := qdrant.NewIndex(log, qcfg, embedder)
		if err != nil {
			return nil, err
		}
		return instrumentVectorIndex("qdrant", idx), nil
	case "memory":
		idx := vectorindex.NewMemoryIndex(embedder)
		if err := seedMemoryIndex(ctx, log, idx, docs); err != nil {
			return nil, fmt.Errorf("seed memory index: %w", err)
		}
		return instrumentVectorIndex("memory", idx), nil
	default:
		return nil, fmt.Errorf("unknown vector provider %q", cfg.VectorProvider)
	}
}

func seedMemoryIndex(ctx context.Context, log *logger.Logger, idx *vectorindex.MemoryIndex, docs repos.DocumentRepo) error {
	all, err := docs.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, doc := range all {
		stored, err := docs.ChunksByDocument(ctx, doc.ID, memorySeedChunksPerDoc)
		if err != nil {
			return err
		}
		chunks := make([]domain.Chunk, 0, len(stored))
		for _, sc := range stored {
			chunks = append(chunks, domain.Chunk{
				DocumentID:   doc.ID,
				OwnerID:      doc.OwnerID,
				Content:      sc.Content,
				Filename:     doc.Filename,
				Title:        doc.Title,
				Tags:         doc.TagList(),
				IsPublic:     doc.IsPublic,
				AllowedRoles: doc.RoleList(),
			})
		}
		if err := idx.Add(ctx, chunks); err != nil {
			return err
		}
	}
	log.Info("Memory vector index seeded", "documents", len(all), "chunks", idx.Len())
	return nil
}

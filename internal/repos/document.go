package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gssecenter/retrieval-backend/internal/domain"
	"github.com/gssecenter/retrieval-backend/internal/platform/logger"
)

// DocumentRepo reads document and chunk metadata. The filename-scan retrieval
// strategy and the asset matcher are its only consumers; ingestion writes the
// rows out of band.
type DocumentRepo interface {
	ListAll(ctx context.Context) ([]*domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ChunksByDocument(ctx context.Context, documentID uuid.UUID, limit int) ([]*domain.DocumentChunk, error)
	GetChunk(ctx context.Context, chunkID uuid.UUID) (*domain.DocumentChunk, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) ListAll(ctx context.Context) ([]*domain.Document, error) {
	var docs []*domain.Document
	if err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var doc domain.Document
	if err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ChunksByDocument(ctx context.Context, documentID uuid.UUID, limit int) ([]*domain.DocumentChunk, error) {
	if documentID == uuid.Nil || limit <= 0 {
		return nil, nil
	}
	var chunks []*domain.DocumentChunk
	if err := r.db.WithContext(ctx).
		Model(&domain.DocumentChunk{}).
		Where("document_id = ?", documentID).
		Order("position ASC").
		Limit(limit).
		Find(&chunks).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *documentRepo) GetChunk(ctx context.Context, chunkID uuid.UUID) (*domain.DocumentChunk, error) {
	if chunkID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var chunk domain.DocumentChunk
	if err := r.db.WithContext(ctx).
		Model(&domain.DocumentChunk{}).
		Where("id = ?", chunkID).
		First(&chunk).Error; err != nil {
		return nil, err
	}
	return &chunk, nil
}

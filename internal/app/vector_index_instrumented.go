package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gssecenter/retrieval-backend/internal/platform/vectorindex"
)

type instrumentedVectorIndex struct {
	provider string
	inner    vectorindex.Index
	tracer   trace.Tracer
}

func instrumentVectorIndex(provider string, inner vectorindex.Index) vectorindex.Index {
	if inner == nil {
		return nil
	}
	return &instrumentedVectorIndex{
		provider: provider,
		inner:    inner,
		tracer:   otel.Tracer("vectorindex"),
	}
}

func (s *instrumentedVectorIndex) NearestNeighbors(ctx context.Context, query string, k int) ([]vectorindex.Hit, error) {
	ctx, span := s.tracer.Start(ctx, "vectorindex.nearest_neighbors", trace.WithAttributes(
		attribute.String("vectorindex.provider", s.provider),
		attribute.Int("vectorindex.k", k),
	))
	defer span.End()

	start := time.Now()
	out, err := s.inner.NearestNeighbors(ctx, query, k)
	span.SetAttributes(
		attribute.Int("vectorindex.hits", len(out)),
		attribute.Int64("vectorindex.duration_ms", time.Since(start).Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

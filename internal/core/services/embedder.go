package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultEmbeddingBatchSize is the number of texts sent per provider call.
const DefaultEmbeddingBatchSize = 10

// ProgressFunc reports how many of total items have been processed.
type ProgressFunc func(done, total int)

// EmbeddingBatcher turns texts into vectors, grouping provider calls.
// Groups are issued one after another, never concurrently.
type EmbeddingBatcher struct {
	service   driven.EmbeddingService
	batchSize int
	limiter   *rate.Limiter
	progress  ProgressFunc
}

// BatcherOption configures an EmbeddingBatcher.
type BatcherOption func(*EmbeddingBatcher)

// WithBatchSize sets the number of texts per provider call.
func WithBatchSize(size int) BatcherOption {
	return func(b *EmbeddingBatcher) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// WithRequestsPerSecond paces provider calls. Zero or less disables pacing.
func WithRequestsPerSecond(rps float64) BatcherOption {
	return func(b *EmbeddingBatcher) {
		if rps > 0 {
			b.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			b.limiter = nil
		}
	}
}

// WithProgress registers a callback invoked after each group completes.
func WithProgress(fn ProgressFunc) BatcherOption {
	return func(b *EmbeddingBatcher) {
		b.progress = fn
	}
}

// NewEmbeddingBatcher creates a batcher over an embedding service.
func NewEmbeddingBatcher(service driven.EmbeddingService, opts ...BatcherOption) *EmbeddingBatcher {
	b := &EmbeddingBatcher{
		service:   service,
		batchSize: DefaultEmbeddingBatchSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BatchSize returns the configured group size.
func (b *EmbeddingBatcher) BatchSize() int {
	return b.batchSize
}

// EmbedBatch returns one vector per text, in input order.
// Empty input returns an empty result without calling the provider.
func (b *EmbeddingBatcher) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if b.service == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingProvider, domain.ErrEmbeddingUnavailable)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))
		group := texts[start:end]

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: wait for rate limit: %w", domain.ErrEmbeddingProvider, err)
			}
		}

		logger.Debug("Embedding texts %d-%d of %d", start+1, end, len(texts))
		got, err := b.service.EmbedBatch(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d-%d: %w", domain.ErrEmbeddingProvider, start, end-1, err)
		}
		if len(got) != len(group) {
			return nil, fmt.Errorf("%w: batch %d-%d: expected %d vectors, got %d",
				domain.ErrEmbeddingProvider, start, end-1, len(group), len(got))
		}
		vectors = append(vectors, got...)

		if b.progress != nil {
			b.progress(end, len(texts))
		}
	}

	return vectors, nil
}

// EmbedOne returns the vector for a single text such as a query.
func (b *EmbeddingBatcher) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if b.service == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingProvider, domain.ErrEmbeddingUnavailable)
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: wait for rate limit: %w", domain.ErrEmbeddingProvider, err)
		}
	}

	got, err := b.service.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingProvider, err)
	}
	if len(got) != 1 {
		return nil, fmt.Errorf("%w: expected 1 vector, got %d", domain.ErrEmbeddingProvider, len(got))
	}
	return got[0], nil
}

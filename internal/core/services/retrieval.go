package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultTopK is the number of matches returned when the caller gives none.
const DefaultTopK = 5

// VectorStoreAdapter maps chunks to vector records and matches back to
// retrieval results.
type VectorStoreAdapter struct {
	store driven.VectorStore
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewVectorStoreAdapter creates an adapter over a vector store.
func NewVectorStoreAdapter(store driven.VectorStore) *VectorStoreAdapter {
	return &VectorStoreAdapter{
		store: store,
		now:   time.Now,
		newID: uuid.NewV7,
	}
}

// Upsert stores one record per chunk and returns the number stored.
//
// Record IDs are <namespace>_<run id>_<chunk index>. The run id is a fresh
// time-ordered UUID per call, so upserting the same document twice into one
// namespace appends rather than replaces.
func (a *VectorStoreAdapter) Upsert(
	ctx context.Context, namespace string, chunks []domain.Chunk, vectors [][]float32,
) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if a.store == nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrVectorStore, domain.ErrVectorStoreUnavailable)
	}

	runID, err := a.newID()
	if err != nil {
		return 0, fmt.Errorf("%w: generate record id: %w", domain.ErrVectorStore, err)
	}

	timestamp := a.now().UTC().Format(time.RFC3339Nano)
	records := make([]driven.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = driven.VectorRecord{
			ID:     namespace + "_" + runID.String() + "_" + strconv.Itoa(chunk.Index),
			Values: vectors[i],
			Metadata: driven.RecordMetadata{
				DocumentURL:  chunk.Source.URL,
				DocumentType: chunk.Source.Type.String(),
				ChunkIndex:   chunk.Index,
				Text:         chunk.Text,
				TotalChunks:  len(chunks),
				Timestamp:    timestamp,
			},
		}
	}

	if err := a.store.Upsert(ctx, namespace, records); err != nil {
		return 0, fmt.Errorf("%w: upsert %d records into %q: %w", domain.ErrVectorStore, len(records), namespace, err)
	}

	logger.Debug("Stored %d vectors in namespace %q", len(records), namespace)
	return len(records), nil
}

// Query returns the topK matches in namespace, best first.
// A topK of zero or less uses DefaultTopK. Scores are not thresholded.
func (a *VectorStoreAdapter) Query(
	ctx context.Context, namespace string, vector []float32, topK int,
) ([]domain.Match, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if a.store == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, domain.ErrVectorStoreUnavailable)
	}

	found, err := a.store.Query(ctx, namespace, vector, topK)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: namespace %q: %w", domain.ErrRetrieval, namespace, err)
		}
		return nil, fmt.Errorf("%w: query namespace %q: %w", domain.ErrRetrieval, namespace, err)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Score > found[j].Score
	})
	if len(found) > topK {
		found = found[:topK]
	}

	matches := make([]domain.Match, len(found))
	for i, m := range found {
		matches[i] = domain.Match{
			Score:       m.Score,
			ChunkText:   m.Metadata.Text,
			ChunkIndex:  m.Metadata.ChunkIndex,
			DocumentURL: m.Metadata.DocumentURL,
		}
	}
	return matches, nil
}

// DeleteNamespace removes every record in namespace.
func (a *VectorStoreAdapter) DeleteNamespace(ctx context.Context, namespace string) error {
	if a.store == nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorStore, domain.ErrVectorStoreUnavailable)
	}
	if err := a.store.DeleteNamespace(ctx, namespace); err != nil {
		return fmt.Errorf("%w: delete namespace %q: %w", domain.ErrVectorStore, namespace, err)
	}
	return nil
}

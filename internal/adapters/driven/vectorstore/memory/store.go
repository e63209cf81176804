// Package memory provides a process-local VectorStore.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// namespace holds records in insertion order with an ID index.
type namespace struct {
	records []driven.VectorRecord
	index   map[string]int
}

// Store keeps vectors in memory, partitioned by namespace.
type Store struct {
	mu         sync.RWMutex
	namespaces map[string]*namespace
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{namespaces: make(map[string]*namespace)}
}

// Upsert writes records into ns, replacing records with the same ID.
func (s *Store) Upsert(ctx context.Context, ns string, records []driven.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ns == "" {
		return fmt.Errorf("%w: namespace is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.namespaces[ns]
	if !ok {
		n = &namespace{index: make(map[string]int)}
		s.namespaces[ns] = n
	}

	for _, r := range records {
		r.Values = slices.Clone(r.Values)
		if i, exists := n.index[r.ID]; exists {
			n.records[i] = r
			continue
		}
		n.index[r.ID] = len(n.records)
		n.records = append(n.records, r)
	}
	return nil
}

// Query scores every record in ns by cosine similarity.
// An unknown namespace returns domain.ErrNotFound.
func (s *Store) Query(ctx context.Context, ns string, vector []float32, topK int) ([]driven.VectorMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.namespaces[ns]
	if !ok {
		return nil, fmt.Errorf("namespace %q: %w", ns, domain.ErrNotFound)
	}

	matches := make([]driven.VectorMatch, 0, len(n.records))
	for _, r := range n.records {
		matches = append(matches, driven.VectorMatch{
			ID:       r.ID,
			Score:    vectorstore.Cosine(vector, r.Values),
			Metadata: r.Metadata,
		})
	}
	return vectorstore.TopK(matches, topK), nil
}

// DeleteNamespace removes ns. Deleting an unknown namespace is not an error.
func (s *Store) DeleteNamespace(_ context.Context, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, ns)
	return nil
}

// Count returns the number of records in ns.
func (s *Store) Count(ns string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.namespaces[ns]; ok {
		return len(n.records)
	}
	return 0
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

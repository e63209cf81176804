package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure RunCache implements the interface.
var _ driven.RunCache = (*RunCache)(nil)

// RunCache is an in-memory implementation of driven.RunCache.
type RunCache struct {
	mu   sync.RWMutex
	runs map[string]domain.DocumentRun
}

// NewRunCache creates a new in-memory run cache.
func NewRunCache() *RunCache {
	return &RunCache{
		runs: make(map[string]domain.DocumentRun),
	}
}

// Get returns a copy of the run stored under key.
func (c *RunCache) Get(_ context.Context, key string) (*domain.DocumentRun, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	run, ok := c.runs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// Put stores a copy of run under key.
func (c *RunCache) Put(_ context.Context, key string, run *domain.DocumentRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs[key] = *run
	return nil
}

// Delete removes the run stored under key.
func (c *RunCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.runs, key)
	return nil
}

// Close releases resources (no-op for memory cache).
func (c *RunCache) Close() error {
	return nil
}

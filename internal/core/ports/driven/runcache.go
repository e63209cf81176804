package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// RunCache memoizes completed document runs so later queries against the
// same document reuse its namespace instead of re-processing it.
type RunCache interface {
	// Get returns the run stored under key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.DocumentRun, error)

	// Put stores run under key, replacing any previous entry.
	Put(ctx context.Context, key string, run *domain.DocumentRun) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

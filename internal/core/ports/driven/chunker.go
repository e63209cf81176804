package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Chunker splits extracted text into ordered retrieval units.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk splits text into chunks attributed to source.
	// Empty text yields no chunks.
	Chunk(ctx context.Context, text string, source domain.DocumentRef) ([]domain.Chunk, error)
}

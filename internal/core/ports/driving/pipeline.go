package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// PipelineService answers questions against documents.
type PipelineService interface {
	// ProcessDocument fetches, extracts, chunks, embeds and stores a document.
	// An empty namespace is replaced by a freshly generated one.
	ProcessDocument(ctx context.Context, url string, docType domain.DocumentType, namespace string) (*domain.ProcessResult, error)

	// ProcessQuery answers a single question against a document.
	ProcessQuery(ctx context.Context, query, url string, docType domain.DocumentType) (*domain.AnswerRecord, error)

	// ProcessMultipleQueries answers several questions against one document.
	// The document is processed once. Per-question failures become inline
	// error answers; only document processing failures are returned as errors.
	ProcessMultipleQueries(ctx context.Context, queries []string, url string, docType domain.DocumentType) (*domain.BatchResult, error)

	// SearchChunks returns the chunks in namespace most similar to query.
	SearchChunks(ctx context.Context, query, namespace string, topK int) ([]domain.Match, error)

	// DeleteNamespace removes a namespace from the vector store.
	DeleteNamespace(ctx context.Context, namespace string) error
}

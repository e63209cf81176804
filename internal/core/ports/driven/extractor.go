package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Extractor converts document bytes of one declared type into plain text.
// Extraction is a pure transform with no side effects.
type Extractor interface {
	// Type returns the document type this extractor handles.
	Type() domain.DocumentType

	// Extract parses content and returns its text.
	// Unparseable content is reported as domain.ErrExtraction with the cause preserved.
	Extract(ctx context.Context, content []byte) (string, error)
}

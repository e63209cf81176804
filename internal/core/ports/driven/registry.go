package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ExtractorRegistry dispatches extraction by declared document type.
type ExtractorRegistry interface {
	// Extract converts content using the extractor registered for docType.
	// Unknown types are reported as domain.ErrUnsupportedType.
	Extract(ctx context.Context, content []byte, docType domain.DocumentType) (string, error)

	// Register adds an extractor, replacing any previous one for the same type.
	Register(extractor Extractor)

	// Supported returns all document types that can be extracted.
	Supported() []domain.DocumentType
}

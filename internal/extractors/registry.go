package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/extractors/docx"
	"github.com/custodia-labs/docqa/internal/extractors/pdf"
	"github.com/custodia-labs/docqa/internal/extractors/plaintext"
)

// Verify interface compliance.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction to the extractor registered for a type.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.DocumentType]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[domain.DocumentType]driven.Extractor),
	}
}

// NewDefaultRegistry creates a registry with the PDF, DOCX and plain text
// extractors registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor, replacing any previous one for the same type.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[extractor.Type()] = extractor
}

// Supported returns all registered document types in sorted order.
func (r *Registry) Supported() []domain.DocumentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.DocumentType, 0, len(r.extractors))
	for t := range r.extractors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Extract converts content using the extractor registered for docType.
// Line endings in the result are normalised to "\n".
func (r *Registry) Extract(ctx context.Context, content []byte, docType domain.DocumentType) (string, error) {
	r.mu.RLock()
	extractor, ok := r.extractors[docType]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, docType)
	}

	text, err := extractor.Extract(ctx, content)
	if err != nil {
		return "", err
	}
	return normaliseNewlines(text), nil
}

func normaliseNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

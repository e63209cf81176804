package services

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// DefaultHealthTimeout bounds each component check.
const DefaultHealthTimeout = 5 * time.Second

// HealthService pings the pipeline's providers.
type HealthService struct {
	embedding driven.EmbeddingService
	llm       driven.LLMService
	store     driven.VectorStore
	timeout   time.Duration
	now       func() time.Time
}

// NewHealthService creates a health service. Nil dependencies are skipped.
func NewHealthService(embedding driven.EmbeddingService, llm driven.LLMService, store driven.VectorStore) *HealthService {
	return &HealthService{
		embedding: embedding,
		llm:       llm,
		store:     store,
		timeout:   DefaultHealthTimeout,
		now:       time.Now,
	}
}

// Check pings the embedding provider, the LLM and the vector store when it supports it.
func (s *HealthService) Check(ctx context.Context) *domain.HealthReport {
	var components []domain.ComponentHealth

	if s.embedding != nil {
		components = append(components, s.check(ctx, "embedding", s.embedding.ModelName(), s.embedding.Ping))
	}
	if s.llm != nil {
		components = append(components, s.check(ctx, "llm", s.llm.ModelName(), s.llm.Ping))
	}
	if pinger, ok := s.store.(driven.Pinger); ok {
		components = append(components, s.check(ctx, "vector_store", "", pinger.Ping))
	}

	return domain.NewHealthReport(components, s.now().UTC())
}

func (s *HealthService) check(
	ctx context.Context, name, model string, ping func(context.Context) error,
) domain.ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	err := ping(ctx)
	result := domain.ComponentHealth{
		Name:    name,
		Model:   model,
		Healthy: err == nil,
		Latency: s.now().Sub(start),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

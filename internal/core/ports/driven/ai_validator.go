package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// AIConfigValidator checks provider settings by contacting the services
// they describe. Settings that are not configured validate as nil.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateVectorStore opens the vector store and pings it when the
	// backend supports it.
	ValidateVectorStore(config *domain.VectorStoreSettings) error
}

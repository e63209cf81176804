// Package ai provides factory functions for creating the pipeline's driven adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	memoryvec "github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore/pinecone"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult holds the adapters created for one pipeline.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorStore      driven.VectorStore
	RunCache         driven.RunCache // Nil when memoization is disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	var errs []error
	if r.EmbeddingService != nil {
		errs = append(errs, r.EmbeddingService.Close())
	}
	if r.LLMService != nil {
		errs = append(errs, r.LLMService.Close())
	}
	if r.VectorStore != nil {
		errs = append(errs, r.VectorStore.Close())
	}
	if r.RunCache != nil {
		errs = append(errs, r.RunCache.Close())
	}
	return errors.Join(errs...)
}

// Initialise creates every adapter the pipeline needs from settings.
// Nothing is contacted over the network; use the validators for that.
// Adapters created before a failure are closed.
func Initialise(settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: settings are required", domain.ErrConfiguration)
	}

	result := &InitResult{}
	fail := func(err error) (*InitResult, error) {
		_ = result.Close()
		return nil, err
	}

	embedding, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return fail(fmt.Errorf("%w: %w: %w", domain.ErrConfiguration, domain.ErrEmbeddingUnavailable, err))
	}
	if embedding == nil {
		return fail(fmt.Errorf("%w: %w: provider %q is not configured",
			domain.ErrConfiguration, domain.ErrEmbeddingUnavailable, settings.Embedding.Provider))
	}
	result.EmbeddingService = embedding

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		return fail(fmt.Errorf("%w: %w: %w", domain.ErrConfiguration, domain.ErrLLMUnavailable, err))
	}
	if llm == nil {
		return fail(fmt.Errorf("%w: %w: provider %q is not configured",
			domain.ErrConfiguration, domain.ErrLLMUnavailable, settings.LLM.Provider))
	}
	result.LLMService = llm

	store, err := CreateVectorStore(&settings.VectorStore)
	if err != nil {
		return fail(fmt.Errorf("%w: %w: %w", domain.ErrConfiguration, domain.ErrVectorStoreUnavailable, err))
	}
	result.VectorStore = store

	runs, err := CreateRunCache(&settings.Pipeline)
	if err != nil {
		return fail(fmt.Errorf("%w: run cache: %w", domain.ErrConfiguration, err))
	}
	result.RunCache = runs

	return result, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorStore creates the vector store selected by settings.
// An empty backend selects the in-memory store.
func CreateVectorStore(settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	if settings == nil || settings.Backend == "" {
		return memoryvec.NewStore(), nil
	}

	switch settings.Backend {
	case domain.VectorStoreMemory:
		return memoryvec.NewStore(), nil

	case domain.VectorStoreSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.VectorStorePinecone:
		store, err := pinecone.NewStore(pinecone.Config{
			Host:   settings.Host,
			APIKey: settings.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported vector store backend: %s", settings.Backend)
	}
}

// CreateRunCache creates the run cache selected by settings.
// Returns nil if memoization is disabled.
func CreateRunCache(settings *domain.PipelineSettings) (driven.RunCache, error) {
	if settings == nil || !settings.Memoize {
		return nil, nil
	}

	switch settings.RunCache {
	case domain.RunCacheMemory, "":
		return memory.NewRunCache(), nil

	case domain.RunCacheBolt:
		cache, err := bolt.NewRunCache(settings.RunCachePath)
		if err != nil {
			return nil, err
		}
		return cache, nil

	default:
		return nil, fmt.Errorf("unsupported run cache backend: %s", settings.RunCache)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

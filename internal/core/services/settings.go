package services

import (
	"fmt"
	"os"
	"slices"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyLLMTemperature    = "llm.temperature"
	keyVectorBackend     = "vector_store.backend"
	keyVectorPath        = "vector_store.path"
	keyVectorHost        = "vector_store.host"
	keyVectorAPIKey      = "vector_store.api_key"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyChunkMinContent   = "chunking.min_content_length"
	keyRetrievalTopK     = "retrieval.top_k"
	keyPipelineMemoize   = "pipeline.memoize"
	keyPipelineRunCache  = "pipeline.run_cache"
	keyPipelineCachePath = "pipeline.run_cache_path"
)

// Environment variables that override stored credentials.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvPineconeAPIKey  = "PINECONE_API_KEY"
	EnvPineconeHost    = "PINECONE_HOST"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
// Credentials found in the process environment take precedence over stored ones.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()
	s.applyEnv(settings)
	return settings, nil
}

// stored reads settings from the config store without environment overrides.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend: s.getVectorBackend(defaults.VectorStore.Backend),
			Path:    s.configStore.GetString(keyVectorPath),
			Host:    s.configStore.GetString(keyVectorHost),
			APIKey:  s.configStore.GetString(keyVectorAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			Size:             s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap:          s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
			MinContentLength: s.getInt(keyChunkMinContent, defaults.Chunking.MinContentLength),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
		},
		Pipeline: domain.PipelineSettings{
			Memoize:      s.getBool(keyPipelineMemoize, defaults.Pipeline.Memoize),
			RunCache:     s.getRunCache(defaults.Pipeline.RunCache),
			RunCachePath: s.configStore.GetString(keyPipelineCachePath),
		},
	}

	return settings
}

// applyEnv overlays credentials from the environment.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if s.lookupEnv == nil {
		return
	}
	keyFor := func(p domain.AIProvider) string {
		switch p {
		case domain.AIProviderOpenAI:
			return s.env(EnvOpenAIAPIKey)
		case domain.AIProviderAnthropic:
			return s.env(EnvAnthropicAPIKey)
		default:
			return ""
		}
	}

	if key := keyFor(settings.Embedding.Provider); key != "" {
		settings.Embedding.APIKey = key
	}
	if key := keyFor(settings.LLM.Provider); key != "" {
		settings.LLM.APIKey = key
	}
	if settings.VectorStore.Backend == domain.VectorStorePinecone {
		if key := s.env(EnvPineconeAPIKey); key != "" {
			settings.VectorStore.APIKey = key
		}
		if host := s.env(EnvPineconeHost); host != "" {
			settings.VectorStore.Host = host
		}
	}
}

func (s *SettingsService) env(name string) string {
	val, ok := s.lookupEnv(name)
	if !ok {
		return ""
	}
	return val
}

// Save persists application settings.
// Empty API keys are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyVectorBackend, settings.VectorStore.Backend.String()},
		{keyVectorPath, settings.VectorStore.Path},
		{keyVectorHost, settings.VectorStore.Host},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyChunkMinContent, settings.Chunking.MinContentLength},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyPipelineMemoize, settings.Pipeline.Memoize},
		{keyPipelineRunCache, string(settings.Pipeline.RunCache)},
		{keyPipelineCachePath, settings.Pipeline.RunCachePath},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key   string
		value string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyVectorAPIKey, settings.VectorStore.APIKey},
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.stored()
	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetVectorStore configures the vector store backend.
func (s *SettingsService) SetVectorStore(vs domain.VectorStoreSettings) error {
	if !vs.Backend.IsValid() {
		return fmt.Errorf("invalid vector store backend: %s", vs.Backend)
	}

	settings := s.stored()
	settings.VectorStore = vs
	return s.Save(settings)
}

// Validate checks that current settings can start the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured (set %s or embedding.api_key)",
			domain.ErrConfiguration, settings.Embedding.Provider, EnvOpenAIAPIKey)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrConfiguration, settings.LLM.Provider)
	}
	if !settings.VectorStore.IsConfigured() {
		return fmt.Errorf("%w: vector store %q is not configured", domain.ErrConfiguration, settings.VectorStore.Backend)
	}
	if settings.Chunking.Size <= settings.Chunking.Overlap {
		return fmt.Errorf("%w: chunking.size %d must exceed chunking.overlap %d",
			domain.ErrConfiguration, settings.Chunking.Size, settings.Chunking.Overlap)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ValidateVectorStoreConfig validates the current vector store by opening and pinging it.
func (s *SettingsService) ValidateVectorStoreConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateVectorStore(&settings.VectorStore)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getVectorBackend(defaultVal domain.VectorStoreBackend) domain.VectorStoreBackend {
	backend := domain.VectorStoreBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getRunCache(defaultVal domain.RunCacheBackend) domain.RunCacheBackend {
	backend := domain.RunCacheBackend(s.configStore.GetString(keyPipelineRunCache))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

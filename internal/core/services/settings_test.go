package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// newTestSettingsService returns a service with an empty environment.
func newTestSettingsService(store *memory.ConfigStore, env map[string]string) *SettingsService {
	service := NewSettingsService(store, nil)
	service.lookupEnv = func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	return service
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("embedding.model", "nomic-embed-text")
	_ = store.Set("embedding.batch_size", int64(25))
	_ = store.Set("embedding.requests_per_second", 2.5)
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("llm.max_tokens", 512)
	_ = store.Set("llm.temperature", 0.0)
	_ = store.Set("vector_store.backend", "sqlite")
	_ = store.Set("vector_store.path", "/tmp/vectors")
	_ = store.Set("chunking.size", 800)
	_ = store.Set("chunking.overlap", 0)
	_ = store.Set("retrieval.top_k", 8)
	_ = store.Set("pipeline.memoize", false)
	_ = store.Set("pipeline.run_cache", "bolt")

	settings, err := newTestSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, 25, settings.Embedding.BatchSize)
	assert.InDelta(t, 2.5, settings.Embedding.RequestsPerSecond, 1e-9)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, 512, settings.LLM.MaxTokens)
	assert.Zero(t, settings.LLM.Temperature)
	assert.Equal(t, domain.VectorStoreSQLite, settings.VectorStore.Backend)
	assert.Equal(t, "/tmp/vectors", settings.VectorStore.Path)
	assert.Equal(t, 800, settings.Chunking.Size)
	assert.Zero(t, settings.Chunking.Overlap)
	assert.Equal(t, 50, settings.Chunking.MinContentLength)
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.False(t, settings.Pipeline.Memoize)
	assert.Equal(t, domain.RunCacheBolt, settings.Pipeline.RunCache)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("vector_store.backend", "faiss")
	_ = store.Set("pipeline.run_cache", "redis")

	settings, err := newTestSettingsService(store, nil).Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.VectorStore.Backend, settings.VectorStore.Backend)
	assert.Equal(t, defaults.Pipeline.RunCache, settings.Pipeline.RunCache)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.api_key", "sk-file")
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("vector_store.backend", "pinecone")

	service := newTestSettingsService(store, map[string]string{
		EnvOpenAIAPIKey:    "sk-env",
		EnvAnthropicAPIKey: "sk-ant-env",
		EnvPineconeAPIKey:  "pc-env",
		EnvPineconeHost:    "https://idx.svc.pinecone.io",
	})

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, "sk-ant-env", settings.LLM.APIKey)
	assert.Equal(t, "pc-env", settings.VectorStore.APIKey)
	assert.Equal(t, "https://idx.svc.pinecone.io", settings.VectorStore.Host)
	assert.True(t, settings.VectorStore.IsConfigured())
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "sk-test-key"
	settings.LLM.Provider = domain.AIProviderAnthropic
	settings.LLM.Model = "claude-3-5-sonnet-latest"
	settings.LLM.APIKey = "sk-ant-test"
	settings.LLM.Temperature = 0.7
	settings.VectorStore = domain.VectorStoreSettings{Backend: domain.VectorStoreSQLite, Path: "/data"}
	settings.Chunking.Overlap = 0
	settings.Pipeline.Memoize = false

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_EmptyAPIKeyNotWritten(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	_, exists := store.Get("embedding.api_key")
	assert.False(t, exists)
	_, exists = store.Get("vector_store.api_key")
	assert.False(t, exists)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Run("ollama uses local base url and default model", func(t *testing.T) {
		service := newTestSettingsService(memory.NewConfigStore(), nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

		settings, _ := service.Get()
		assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
		assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
		assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	})

	t.Run("openai clears base url", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("embedding.base_url", "http://localhost:11434")
		service := newTestSettingsService(store, nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "text-embedding-3-small", "sk-x"))

		settings, _ := service.Get()
		assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
		assert.Empty(t, settings.Embedding.BaseURL)
		assert.Equal(t, "sk-x", settings.Embedding.APIKey)
	})

	t.Run("environment key is not persisted", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := newTestSettingsService(store, map[string]string{EnvOpenAIAPIKey: "sk-env"})

		require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

		_, exists := store.Get("embedding.api_key")
		assert.False(t, exists)
	})

	errorCases := []struct {
		name     string
		provider domain.AIProvider
		apiKey   string
	}{
		{"invalid provider", "invalid", ""},
		{"anthropic has no embeddings", domain.AIProviderAnthropic, "sk"},
		{"missing api key", domain.AIProviderOpenAI, ""},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSettingsService(memory.NewConfigStore(), nil)
			assert.Error(t, service.SetEmbeddingProvider(tt.provider, "", tt.apiKey))
		})
	}
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant"))
	settings, _ := service.Get()
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.Equal(t, "sk-ant", settings.LLM.APIKey)

	assert.Error(t, service.SetLLMProvider("invalid", "", ""))
	assert.Error(t, service.SetLLMProvider(domain.AIProviderOpenAI, "", ""))
}

func TestSettingsService_SetVectorStore(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetVectorStore(domain.VectorStoreSettings{
		Backend: domain.VectorStorePinecone,
		Host:    "https://idx.svc.pinecone.io",
		APIKey:  "pc-key",
	}))
	settings, _ := service.Get()
	assert.Equal(t, domain.VectorStorePinecone, settings.VectorStore.Backend)
	assert.Equal(t, "pc-key", settings.VectorStore.APIKey)

	assert.Error(t, service.SetVectorStore(domain.VectorStoreSettings{Backend: "faiss"}))
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		env     map[string]string
		wantErr bool
	}{
		{"missing openai key", nil, nil, true},
		{"key from environment", nil, map[string]string{EnvOpenAIAPIKey: "sk"}, false},
		{
			name:   "local providers",
			values: map[string]any{"embedding.provider": "ollama", "llm.provider": "ollama"},
		},
		{
			name: "pinecone without host",
			values: map[string]any{
				"embedding.provider": "ollama", "llm.provider": "ollama",
				"vector_store.backend": "pinecone", "vector_store.api_key": "pc",
			},
			wantErr: true,
		},
		{
			name: "overlap exceeds size",
			values: map[string]any{
				"embedding.provider": "ollama", "llm.provider": "ollama",
				"chunking.size": 100, "chunking.overlap": 100,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.values {
				_ = store.Set(k, v)
			}
			err := newTestSettingsService(store, tt.env).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

// failingConfigStore wraps a memory store and fails Set for one key.
type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if key == f.failOn {
		return assert.AnError
	}
	return f.ConfigStore.Set(key, value)
}

func TestSettingsService_Save_Error(t *testing.T) {
	for _, key := range []string{"embedding.provider", "llm.temperature", "vector_store.backend", "llm.api_key"} {
		t.Run(key, func(t *testing.T) {
			store := &failingConfigStore{ConfigStore: memory.NewConfigStore(), failOn: key}
			service := NewSettingsService(store, nil)

			settings := domain.DefaultAppSettings()
			settings.LLM.APIKey = "sk"
			err := service.Save(&settings)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

// Mock AIConfigValidator for testing
type mockAIConfigValidator struct {
	embedErr  error
	llmErr    error
	vectorErr error
	vectorIn  *domain.VectorStoreSettings
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

func (m *mockAIConfigValidator) ValidateVectorStore(config *domain.VectorStoreSettings) error {
	m.vectorIn = config
	return m.vectorErr
}

func TestSettingsService_ValidateProviderConfig(t *testing.T) {
	store := memory.NewConfigStore()

	assert.NoError(t, NewSettingsService(store, nil).ValidateEmbeddingConfig())
	assert.NoError(t, NewSettingsService(store, nil).ValidateLLMConfig())
	assert.NoError(t, NewSettingsService(store, &mockAIConfigValidator{}).ValidateEmbeddingConfig())

	assert.NoError(t, NewSettingsService(store, nil).ValidateVectorStoreConfig())

	failing := NewSettingsService(store, &mockAIConfigValidator{embedErr: assert.AnError, llmErr: assert.AnError, vectorErr: assert.AnError})
	assert.ErrorIs(t, failing.ValidateEmbeddingConfig(), assert.AnError)
	assert.ErrorIs(t, failing.ValidateLLMConfig(), assert.AnError)
	assert.ErrorIs(t, failing.ValidateVectorStoreConfig(), assert.AnError)
}

func TestSettingsService_ValidateVectorStoreConfig_UsesStoredBackend(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIConfigValidator{}
	service := NewSettingsService(store, validator)

	require.NoError(t, service.SetVectorStore(domain.VectorStoreSettings{
		Backend: domain.VectorStoreSQLite,
		Path:    "/data/docqa",
	}))
	require.NoError(t, service.ValidateVectorStoreConfig())

	require.NotNil(t, validator.vectorIn)
	assert.Equal(t, domain.VectorStoreSQLite, validator.vectorIn.Backend)
	assert.Equal(t, "/data/docqa", validator.vectorIn.Path)
}

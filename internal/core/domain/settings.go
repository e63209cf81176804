package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is the number of texts sent per provider call.
	BatchSize int

	// RequestsPerSecond paces provider calls. Zero disables pacing.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens bounds the length of generated answers.
	MaxTokens int

	// Temperature controls randomness of generated answers.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorStoreBackend selects the vector store implementation.
type VectorStoreBackend string

// Available vector store backends.
const (
	// VectorStoreMemory keeps vectors in process memory.
	VectorStoreMemory VectorStoreBackend = "memory"

	// VectorStoreSQLite persists vectors in a local SQLite database.
	VectorStoreSQLite VectorStoreBackend = "sqlite"

	// VectorStorePinecone uses a Pinecone index over its REST API.
	VectorStorePinecone VectorStoreBackend = "pinecone"
)

// IsValid returns true if the backend is recognised.
func (b VectorStoreBackend) IsValid() bool {
	switch b {
	case VectorStoreMemory, VectorStoreSQLite, VectorStorePinecone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorStoreBackend) String() string {
	return string(b)
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Backend selects the implementation.
	Backend VectorStoreBackend

	// Path is the data directory for the SQLite backend.
	Path string

	// Host is the Pinecone index host URL.
	Host string

	// APIKey is the Pinecone API key.
	APIKey string
}

// IsConfigured returns true if the backend has what it needs to start.
func (v VectorStoreSettings) IsConfigured() bool {
	switch v.Backend {
	case VectorStoreMemory, VectorStoreSQLite:
		return true
	case VectorStorePinecone:
		return v.Host != "" && v.APIKey != ""
	default:
		return false
	}
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// Size is the window size in characters.
	Size int

	// Overlap is the number of characters shared by consecutive hard-cut windows.
	Overlap int

	// MinContentLength drops segments whose trimmed length does not exceed it.
	MinContentLength int
}

// RetrievalSettings configures similarity search.
type RetrievalSettings struct {
	// TopK is the number of matches retrieved per query.
	TopK int
}

// RunCacheBackend selects where memoized document runs are kept.
type RunCacheBackend string

// Available run cache backends.
const (
	// RunCacheMemory keeps runs for the life of the process.
	RunCacheMemory RunCacheBackend = "memory"

	// RunCacheBolt persists runs in a bbolt database.
	RunCacheBolt RunCacheBackend = "bolt"
)

// IsValid returns true if the backend is recognised.
func (b RunCacheBackend) IsValid() bool {
	return b == RunCacheMemory || b == RunCacheBolt
}

// PipelineSettings configures orchestration.
type PipelineSettings struct {
	// Memoize reuses a processed document for later queries on the same URL and type.
	Memoize bool

	// RunCache selects where memoized runs are kept.
	RunCache RunCacheBackend

	// RunCachePath is the data directory for the bolt run cache.
	RunCachePath string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
	Chunking    ChunkingSettings
	Retrieval   RetrievalSettings
	Pipeline    PipelineSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Providers default to OpenAI; API keys must come from config or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOpenAI,
			Model:     "text-embedding-ada-002",
			BatchSize: 10,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       "gpt-4",
			MaxTokens:   1000,
			Temperature: 0.3,
		},
		VectorStore: VectorStoreSettings{
			Backend: VectorStoreMemory,
		},
		Chunking: ChunkingSettings{
			Size:             1000,
			Overlap:          200,
			MinContentLength: 50,
		},
		Retrieval: RetrievalSettings{
			TopK: 5,
		},
		Pipeline: PipelineSettings{
			Memoize:  true,
			RunCache: RunCacheMemory,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-ada-002",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

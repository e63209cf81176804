package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockPipelineService records calls and returns canned results.
type mockPipelineService struct {
	processed  []string
	processNS  []string
	processTyp []domain.DocumentType
	processErr error

	queryArgs struct {
		query, url string
		docType    domain.DocumentType
	}
	record   *domain.AnswerRecord
	queryErr error

	batchQueries []string
	batch        *domain.BatchResult
	batchErr     error

	searchArgs struct {
		query, namespace string
		topK             int
	}
	matches   []domain.Match
	searchErr error

	deleted   []string
	deleteErr error
}

var _ driving.PipelineService = (*mockPipelineService)(nil)

func (m *mockPipelineService) ProcessDocument(_ context.Context, url string, docType domain.DocumentType, namespace string) (*domain.ProcessResult, error) {
	if m.processErr != nil {
		return nil, m.processErr
	}
	m.processed = append(m.processed, url)
	m.processNS = append(m.processNS, namespace)
	m.processTyp = append(m.processTyp, docType)
	if namespace == "" {
		namespace = "generated-ns"
	}
	return &domain.ProcessResult{
		Success:      true,
		Chunks:       3,
		Embeddings:   3,
		Stored:       3,
		Namespace:    namespace,
		DocumentURL:  url,
		DocumentType: docType,
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (m *mockPipelineService) ProcessQuery(_ context.Context, query, url string, docType domain.DocumentType) (*domain.AnswerRecord, error) {
	m.queryArgs.query = query
	m.queryArgs.url = url
	m.queryArgs.docType = docType
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.record, nil
}

func (m *mockPipelineService) ProcessMultipleQueries(_ context.Context, queries []string, _ string, _ domain.DocumentType) (*domain.BatchResult, error) {
	m.batchQueries = queries
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	return m.batch, nil
}

func (m *mockPipelineService) SearchChunks(_ context.Context, query, namespace string, topK int) ([]domain.Match, error) {
	m.searchArgs.query = query
	m.searchArgs.namespace = namespace
	m.searchArgs.topK = topK
	return m.matches, m.searchErr
}

func (m *mockPipelineService) DeleteNamespace(_ context.Context, namespace string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, namespace)
	return nil
}

// mockHealthService returns a fixed report.
type mockHealthService struct {
	report *domain.HealthReport
}

func (m *mockHealthService) Check(_ context.Context) *domain.HealthReport {
	return m.report
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings      domain.AppSettings
	getErr        error
	validateErr   error
	embeddingErr  error
	llmErr        error
	vectorErr     error
	lastAPIKey    string
	vectorStoreIn *domain.VectorStoreSettings
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	m.lastAPIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	m.lastAPIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetVectorStore(settings domain.VectorStoreSettings) error {
	m.vectorStoreIn = &settings
	m.settings.VectorStore = settings
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.embeddingErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmErr
}

func (m *mockSettingsService) ValidateVectorStoreConfig() error {
	return m.vectorErr
}

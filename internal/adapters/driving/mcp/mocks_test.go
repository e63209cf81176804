package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	processResult *domain.ProcessResult
	record        *domain.AnswerRecord
	batch         *domain.BatchResult
	matches       []domain.Match
	err           error

	// Captured arguments.
	gotURL       string
	gotType      domain.DocumentType
	gotNamespace string
	gotQueries   []string
	gotTopK      int
}

func (m *mockPipelineService) ProcessDocument(
	_ context.Context, url string, docType domain.DocumentType, namespace string,
) (*domain.ProcessResult, error) {
	m.gotURL, m.gotType, m.gotNamespace = url, docType, namespace
	return m.processResult, m.err
}

func (m *mockPipelineService) ProcessQuery(
	_ context.Context, query, url string, docType domain.DocumentType,
) (*domain.AnswerRecord, error) {
	m.gotQueries = []string{query}
	m.gotURL, m.gotType = url, docType
	return m.record, m.err
}

func (m *mockPipelineService) ProcessMultipleQueries(
	_ context.Context, queries []string, url string, docType domain.DocumentType,
) (*domain.BatchResult, error) {
	m.gotQueries = queries
	m.gotURL, m.gotType = url, docType
	return m.batch, m.err
}

func (m *mockPipelineService) SearchChunks(
	_ context.Context, _, namespace string, topK int,
) ([]domain.Match, error) {
	m.gotNamespace, m.gotTopK = namespace, topK
	return m.matches, m.err
}

func (m *mockPipelineService) DeleteNamespace(_ context.Context, namespace string) error {
	m.gotNamespace = namespace
	return m.err
}

// mockHealthService is a mock implementation of driving.HealthService.
type mockHealthService struct {
	components []domain.ComponentHealth
}

func (m *mockHealthService) Check(context.Context) *domain.HealthReport {
	return domain.NewHealthReport(m.components, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

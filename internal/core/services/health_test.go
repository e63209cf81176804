package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

type pingingEmbedding struct {
	mockEmbeddingService
	err error
}

func (m *pingingEmbedding) Ping(context.Context) error { return m.err }

type pingingLLM struct {
	mockLLMService
	err error
}

func (m *pingingLLM) Ping(context.Context) error { return m.err }

type pingingStore struct {
	mockVectorStore
	err error
}

func (m *pingingStore) Ping(context.Context) error { return m.err }

func TestHealthService_Check(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	t.Run("all healthy", func(t *testing.T) {
		svc := NewHealthService(&pingingEmbedding{}, &pingingLLM{}, &pingingStore{})
		svc.now = func() time.Time { return fixed }

		report := svc.Check(context.Background())

		assert.Equal(t, domain.HealthHealthy, report.Status)
		assert.Equal(t, fixed, report.Timestamp)
		require.Len(t, report.Components, 3)
		assert.Equal(t, "embedding", report.Components[0].Name)
		assert.Equal(t, "mock-embed", report.Components[0].Model)
		assert.Equal(t, "llm", report.Components[1].Name)
		assert.Equal(t, "vector_store", report.Components[2].Name)
	})

	t.Run("failing provider degrades", func(t *testing.T) {
		svc := NewHealthService(&pingingEmbedding{}, &pingingLLM{err: errors.New("401 unauthorized")}, nil)

		report := svc.Check(context.Background())

		assert.Equal(t, domain.HealthDegraded, report.Status)
		require.Len(t, report.Components, 2)
		assert.True(t, report.Components[0].Healthy)
		assert.False(t, report.Components[1].Healthy)
		assert.Equal(t, "401 unauthorized", report.Components[1].Error)
	})

	t.Run("store without ping is skipped", func(t *testing.T) {
		svc := NewHealthService(nil, nil, &mockVectorStore{})

		report := svc.Check(context.Background())

		assert.Equal(t, domain.HealthHealthy, report.Status)
		assert.Empty(t, report.Components)
	})
}

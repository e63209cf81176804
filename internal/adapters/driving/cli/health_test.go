package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestHealthCmd_Healthy(t *testing.T) {
	env := setupTestServices(t)
	env.health.report = domain.NewHealthReport([]domain.ComponentHealth{
		{Name: "embedding", Model: "text-embedding-3-small", Healthy: true, Latency: 12 * time.Millisecond},
		{Name: "llm", Model: "gpt-4o-mini", Healthy: true, Latency: 30 * time.Millisecond},
	}, time.Now())

	out, err := execute(t, nil, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "embedding (text-embedding-3-small) 12ms")
	assert.Contains(t, out, "Status: healthy")
}

func TestHealthCmd_Degraded(t *testing.T) {
	env := setupTestServices(t)
	env.health.report = domain.NewHealthReport([]domain.ComponentHealth{
		{Name: "vector_store", Healthy: false, Error: "connection refused"},
	}, time.Now())

	out, err := execute(t, nil, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status degraded")
	assert.Contains(t, out, "fail vector_store: connection refused")
}

func TestHealthCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	env.health.report = domain.NewHealthReport([]domain.ComponentHealth{
		{Name: "llm", Healthy: true},
	}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	out, err := execute(t, nil, "health", "--json")
	require.NoError(t, err)

	var got domain.HealthReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.HealthHealthy, got.Status)
	require.Len(t, got.Components, 1)
}

func TestHealthCmd_NoHealthService(t *testing.T) {
	env := setupTestServices(t)
	SetServices(nil, func(_ context.Context, _ RuntimeOptions) (*Runtime, error) {
		return &Runtime{Pipeline: env.pipeline}, nil
	})

	_, err := execute(t, nil, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health service not configured")
}

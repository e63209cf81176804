package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// stubSettings returns fixed settings.
type stubSettings struct {
	settings domain.AppSettings
	err      error
}

func (s *stubSettings) Get() (*domain.AppSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.settings
	return &out, nil
}

func (s *stubSettings) Save(*domain.AppSettings) error                              { return nil }
func (s *stubSettings) SetEmbeddingProvider(domain.AIProvider, string, string) error { return nil }
func (s *stubSettings) SetLLMProvider(domain.AIProvider, string, string) error       { return nil }
func (s *stubSettings) SetVectorStore(domain.VectorStoreSettings) error              { return nil }
func (s *stubSettings) Validate() error                                              { return nil }
func (s *stubSettings) GetDefaults() domain.AppSettings                              { return domain.DefaultAppSettings() }
func (s *stubSettings) ValidateEmbeddingConfig() error                               { return nil }
func (s *stubSettings) ValidateLLMConfig() error                                     { return nil }
func (s *stubSettings) ValidateVectorStoreConfig() error                             { return nil }

// fakeOllama serves the embed, chat and tags endpoints.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		embeddings := make([][]float32, len(req.Input))
		for i, text := range req.Input {
			// Texts mentioning the refund policy point the same way as the question
			if strings.Contains(strings.ToLower(text), "refund") {
				embeddings[i] = []float32{1, 0, 0}
			} else {
				embeddings[i] = []float32{0, 1, 0}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "Refunds are issued within 14 days."},
			"done":    true,
		})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func ollamaSettings(baseURL string) domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Embedding = domain.EmbeddingSettings{
		Provider:  domain.AIProviderOllama,
		Model:     "nomic-embed-text",
		BaseURL:   baseURL,
		BatchSize: 2,
	}
	s.LLM = domain.LLMSettings{
		Provider:    domain.AIProviderOllama,
		Model:       "llama3.2",
		BaseURL:     baseURL,
		MaxTokens:   200,
		Temperature: 0.3,
	}
	return s
}

func writeDocument(t *testing.T) string {
	t.Helper()

	text := strings.Join([]string{
		"Our shipping policy covers deliveries to every region we operate in, with tracked parcels.",
		"The refund policy allows customers to return goods and receive a refund within fourteen days.",
		"Warranty claims are handled by the manufacturer and require the original proof of purchase.",
	}, "\n\n")
	path := filepath.Join(t.TempDir(), "policy.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestRuntimeFactory_EndToEnd(t *testing.T) {
	server := fakeOllama(t)
	settings := &stubSettings{settings: ollamaSettings(server.URL)}
	settings.settings.Chunking.Size = 120
	settings.settings.Chunking.Overlap = 20

	var progressCalls int
	factory := newRuntimeFactory(settings, t.TempDir())
	rt, err := factory(context.Background(), cli.RuntimeOptions{
		Progress: func(_, _ int) { progressCalls++ },
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, rt.Close()) }()

	doc := writeDocument(t)

	record, err := rt.Pipeline.ProcessQuery(context.Background(), "What is the refund window?", doc, domain.DocumentTypeTXT)
	require.NoError(t, err)
	assert.Equal(t, "Refunds are issued within 14 days.", record.Answer)
	require.NotEmpty(t, record.RelevantSections)
	assert.Contains(t, record.RelevantSections[0].ChunkText, "refund")
	assert.Positive(t, progressCalls)

	// Memoized: the second question reuses the namespace
	again, err := rt.Pipeline.ProcessQuery(context.Background(), "Refund?", doc, domain.DocumentTypeTXT)
	require.NoError(t, err)
	assert.Equal(t, record.Namespace, again.Namespace)

	report := rt.Health.Check(context.Background())
	assert.Equal(t, domain.HealthHealthy, report.Status)
}

func TestRuntimeFactory_WatchPrompts(t *testing.T) {
	server := fakeOllama(t)
	promptDir := t.TempDir()

	factory := newRuntimeFactory(&stubSettings{settings: ollamaSettings(server.URL)}, promptDir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := factory(ctx, cli.RuntimeOptions{WatchPrompts: true})
	require.NoError(t, err)

	// The watcher initialises the prompt directory
	assert.FileExists(t, filepath.Join(promptDir, "answer_system.txt"))
	assert.NoError(t, rt.Close())
}

func TestRuntimeFactory_Errors(t *testing.T) {
	t.Run("settings error", func(t *testing.T) {
		factory := newRuntimeFactory(&stubSettings{err: errors.New("corrupt config")}, t.TempDir())
		_, err := factory(context.Background(), cli.RuntimeOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt config")
	})

	t.Run("missing API key", func(t *testing.T) {
		factory := newRuntimeFactory(&stubSettings{settings: domain.DefaultAppSettings()}, t.TempDir())
		_, err := factory(context.Background(), cli.RuntimeOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("invalid chunking", func(t *testing.T) {
		settings := ollamaSettings("http://127.0.0.1:1")
		settings.Chunking.Overlap = settings.Chunking.Size
		factory := newRuntimeFactory(&stubSettings{settings: settings}, t.TempDir())
		_, err := factory(context.Background(), cli.RuntimeOptions{})
		assert.Error(t, err)
	})

	t.Run("unwritable prompt dir", func(t *testing.T) {
		factory := newRuntimeFactory(&stubSettings{settings: ollamaSettings("http://127.0.0.1:1")}, "/dev/null/prompts")
		rt, err := factory(context.Background(), cli.RuntimeOptions{WatchPrompts: true})
		// Prompts fall back to defaults; only hot reload is lost
		require.NoError(t, err)
		assert.NoError(t, rt.Close())
	})
}

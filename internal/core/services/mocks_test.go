package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each text maps to a deterministic vector derived from its bytes.
type mockEmbeddingService struct {
	mu       sync.Mutex
	calls    [][]string
	embedErr error

	// failOn fails any call whose batch contains this text.
	failOn string

	// short drops the last vector of every batch.
	short bool
}

func textVector(text string) []float32 {
	v := make([]float32, 8)
	for i, b := range []byte(text) {
		v[i%8] += float32(b)
	}
	v[len(text)%8] += 1
	return v
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, 0, len(texts))
	for _, t := range texts {
		if m.failOn != "" && t == m.failOn {
			return nil, errors.New("provider rejected input")
		}
		result = append(result, textVector(t))
	}
	if m.short && len(result) > 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockEmbeddingService) Dimensions() int { return 8 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	err      error
	requests []driven.CompletionRequest

	// failOn fails completions whose user prompt contains this text.
	failOn string
}

func (m *mockLLMService) Complete(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if m.failOn != "" && strings.Contains(req.User, m.failOn) {
		return "", errors.New("model overloaded")
	}
	if m.response != "" {
		return m.response, nil
	}
	return "answer", nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error { return nil }

// mockSource implements driven.DocumentSource for testing.
type mockSource struct {
	content []byte
	err     error
	fetches int
}

func (m *mockSource) Fetch(_ context.Context, _ string) ([]byte, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return m.content, nil
}

// mockExtractors implements driven.ExtractorRegistry by returning the bytes as text.
type mockExtractors struct {
	err error
}

func (m *mockExtractors) Extract(_ context.Context, content []byte, _ domain.DocumentType) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return string(content), nil
}

func (m *mockExtractors) Register(driven.Extractor) {}

func (m *mockExtractors) Supported() []domain.DocumentType { return domain.AllDocumentTypes() }

// lineChunker implements driven.Chunker by emitting one chunk per non-empty line.
type lineChunker struct{}

func (lineChunker) Name() string { return "lines" }

func (lineChunker) Chunk(_ context.Context, text string, src domain.DocumentRef) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			chunks = append(chunks, domain.Chunk{Index: len(chunks), Text: line, Source: src})
		}
	}
	return chunks, nil
}

// mockVectorStore implements driven.VectorStore with brute-force cosine search.
type mockVectorStore struct {
	mu         sync.Mutex
	namespaces map[string][]driven.VectorRecord
	upsertErr  error
	queryErr   error
	deleted    []string
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{namespaces: make(map[string][]driven.VectorRecord)}
}

func (m *mockVectorStore) Upsert(_ context.Context, ns string, records []driven.VectorRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[ns] = append(m.namespaces[ns], records...)
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, ns string, vec []float32, topK int) ([]driven.VectorMatch, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.namespaces[ns]
	if !ok {
		return nil, domain.ErrNotFound
	}
	matches := make([]driven.VectorMatch, len(records))
	for i, r := range records {
		matches[i] = driven.VectorMatch{ID: r.ID, Score: cosine(vec, r.Values), Metadata: r.Metadata}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *mockVectorStore) DeleteNamespace(_ context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.namespaces, ns)
	m.deleted = append(m.deleted, ns)
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// mockRunCache implements driven.RunCache over a map.
type mockRunCache struct {
	runs   map[string]domain.DocumentRun
	getErr error
}

func newMockRunCache() *mockRunCache {
	return &mockRunCache{runs: make(map[string]domain.DocumentRun)}
}

func (m *mockRunCache) Get(_ context.Context, key string) (*domain.DocumentRun, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	run, ok := m.runs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

func (m *mockRunCache) Put(_ context.Context, key string, run *domain.DocumentRun) error {
	m.runs[key] = *run
	return nil
}

func (m *mockRunCache) Delete(_ context.Context, key string) error {
	delete(m.runs, key)
	return nil
}

func (m *mockRunCache) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

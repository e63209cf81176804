package bolt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func testRun() *domain.DocumentRun {
	return &domain.DocumentRun{
		Namespace:   "doc_1700000000000",
		Document:    domain.DocumentRef{URL: "https://example.com/a.pdf", Type: domain.DocumentTypePDF},
		Chunks:      4,
		Embeddings:  4,
		Stored:      4,
		Stage:       domain.RunStageReady,
		CompletedAt: time.Date(2024, 5, 6, 7, 8, 9, 123, time.UTC),
	}
}

func TestRunCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache, err := NewRunCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	run := testRun()
	require.NoError(t, cache.Put(ctx, run.Document.Key(), run))

	got, err := cache.Get(ctx, run.Document.Key())
	require.NoError(t, err)
	assert.Equal(t, run, got)
	assert.True(t, got.IsReady())
	assert.Equal(t, 1, cache.Len())
}

func TestRunCache_Missing(t *testing.T) {
	cache, err := NewRunCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunCache_Delete(t *testing.T) {
	ctx := context.Background()
	cache, err := NewRunCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Put(ctx, "k", testRun()))
	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunCache_PutNil(t *testing.T) {
	cache, err := NewRunCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	assert.ErrorIs(t, cache.Put(context.Background(), "k", nil), domain.ErrInvalidInput)
}

func TestRunCache_Persists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cache, err := NewRunCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "k", testRun()))
	require.NoError(t, cache.Close())

	cache, err = NewRunCache(dir)
	require.NoError(t, err)
	defer cache.Close()

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "doc_1700000000000", got.Namespace)
}

package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, domain.DocumentTypeTXT, extractor.Type())
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{"ascii", []byte("Hello, World!"), "Hello, World!"},
		{"empty", []byte{}, ""},
		{"unicode", []byte("Hello 世界 🌍 Привет"), "Hello 世界 🌍 Привет"},
		{"byte order mark stripped", append([]byte{0xEF, 0xBB, 0xBF}, "policy"...), "policy"},
		{"multiline", []byte("line one\nline two"), "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Extract(context.Background(), tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Equal(t, domain.KindExtraction, domain.KindOf(err))
}

func TestExtract_LargeContent(t *testing.T) {
	content := strings.Repeat("Lorem ipsum dolor sit amet. ", 10000)
	text, err := New().Extract(context.Background(), []byte(content))
	require.NoError(t, err)
	assert.Len(t, text, len(content))
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func BenchmarkExtract(b *testing.B) {
	extractor := New()
	content := []byte(strings.Repeat("Lorem ipsum dolor sit amet. ", 1000))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = extractor.Extract(ctx, content)
	}
}

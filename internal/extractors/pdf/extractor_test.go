package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	calls int
	name  string
	args  []string
	stdin []byte
}

func (m *mockRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	m.calls++
	m.name = name
	m.args = args
	m.stdin = stdin
	return m.output, m.err
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, domain.DocumentTypePDF, extractor.Type())
	assert.IsType(t, execRunner{}, extractor.runner)
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("test output")}
	extractor := NewWithRunner(runner)
	require.NotNil(t, extractor)
	assert.Equal(t, runner, extractor.runner)
}

func TestExtract_WithMockRunner(t *testing.T) {
	runner := &mockRunner{
		output: []byte("Policy Title\n\nThis is the content of the PDF.\n\fPage two.\n"),
	}
	content := []byte("%PDF-1.4 fake pdf content")

	text, err := NewWithRunner(runner).Extract(context.Background(), content)
	require.NoError(t, err)

	assert.Contains(t, text, "This is the content of the PDF.")
	assert.NotContains(t, text, "\f")
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-", "-"}, runner.args)
	assert.Equal(t, content, runner.stdin)
}

func TestExtract_MissingHeader(t *testing.T) {
	runner := &mockRunner{output: []byte("unused")}

	_, err := NewWithRunner(runner).Extract(context.Background(), []byte("PK\x03\x04 this is a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Zero(t, runner.calls)
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}

	_, err := NewWithRunner(runner).Extract(context.Background(), []byte("%PDF-1.4 fake pdf content"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Contains(t, err.Error(), "pdftotext crashed")
}

func TestExtract_ToolNotFound(t *testing.T) {
	runner := &mockRunner{err: ErrPDFToolNotFound}

	_, err := NewWithRunner(runner).Extract(context.Background(), []byte("%PDF-1.7"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtract_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not available, skipping integration test")
	}

	// A real PDF fixture is required; the mock runner tests cover parsing.
	t.Skip("integration test requires sample PDF file")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

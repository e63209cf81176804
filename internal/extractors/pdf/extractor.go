// Package pdf extracts text from PDF documents using the poppler pdftotext tool.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// toolName is the external binary used for extraction.
const toolName = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

var pdfMagic = []byte("%PDF-")

// CommandRunner runs an external command with stdin and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, ErrPDFToolNotFound
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Extractor handles PDF documents.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor that shells out to pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Type returns the document type this extractor handles.
func (e *Extractor) Type() domain.DocumentType {
	return domain.DocumentTypePDF
}

// Extract converts PDF bytes to text, preserving physical layout.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), pdfMagic) {
		return "", fmt.Errorf("%w: pdf: missing %%PDF- header", domain.ErrExtraction)
	}

	out, err := e.runner.Run(ctx, content, toolName, "-layout", "-enc", "UTF-8", "-", "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return "", fmt.Errorf("%w: pdf: %w", domain.ErrExtraction, err)
		}
		return "", fmt.Errorf("%w: pdf: pdftotext failed: %w", domain.ErrExtraction, err)
	}

	// pdftotext separates pages with form feeds.
	return string(bytes.ReplaceAll(out, []byte("\f"), []byte("\n"))), nil
}

// CheckAvailable reports whether pdftotext can be found in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF documents. Install poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

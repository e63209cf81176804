// Package chunker splits extracted text into overlapping, boundary-aware chunks.
package chunker

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultMinContentLength is the trimmed length a chunk must exceed to be kept.
const DefaultMinContentLength = 50

// breakThreshold is the fraction of the window a sentence break must pass
// before the window is cut there.
const breakThreshold = 0.7

// Verify interface compliance.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits text into chunks.
// It implements the driven.Chunker interface.
type Processor struct {
	chunkSize  int
	overlap    int
	minContent int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// WithMinContentLength sets the trimmed length a chunk must exceed to be emitted.
func WithMinContentLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minContent = n
		}
	}
}

// New creates a new chunker processor with the given options.
// A chunk size that does not exceed the overlap is rejected, since the
// cursor would never advance.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		minContent: DefaultMinContentLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, p.chunkSize)
	}
	if p.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrConfiguration, p.overlap)
	}
	if p.chunkSize <= p.overlap {
		return nil, fmt.Errorf("%w: chunk size %d must exceed overlap %d",
			domain.ErrConfiguration, p.chunkSize, p.overlap)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk collects all chunks of text.
func (p *Processor) Chunk(ctx context.Context, text string, source domain.DocumentRef) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for c := range p.Chunks(text, source) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// Chunks returns a lazy sequence over the chunks of text.
// The sequence can be ranged over any number of times and yields the same
// chunks each time. Lengths are measured in characters, not bytes.
func (p *Processor) Chunks(text string, source domain.DocumentRef) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		if text == "" {
			return
		}

		runes := []rune(text)
		length := len(runes)

		index := 0
		start := 0
		for start < length {
			end := min(start+p.chunkSize, length)
			window := string(runes[start:end])

			if end < length {
				bp := lastBreak(runes[start:end])
				if float64(bp) > breakThreshold*float64(p.chunkSize) {
					window = string(runes[start : start+bp+1])
					start += bp + 1
				} else {
					start = end - p.overlap
				}
			} else {
				start = end
			}

			trimmed := strings.TrimSpace(window)
			if utf8.RuneCountInString(trimmed) <= p.minContent {
				continue
			}

			if !yield(domain.Chunk{Index: index, Text: trimmed, Source: source}) {
				return
			}
			index++
		}
	}
}

// lastBreak returns the offset of the last sentence terminator or newline
// in runes, or -1 when there is none.
func lastBreak(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '.' || runes[i] == '\n' {
			return i
		}
	}
	return -1
}

package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure FileSource implements the interface.
var _ driven.DocumentSource = (*FileSource)(nil)

// FileSource reads documents from the local filesystem.
type FileSource struct {
	maxBytes int64
}

// NewFileSource creates a filesystem document source.
func NewFileSource() *FileSource {
	return &FileSource{maxBytes: DefaultMaxBytes}
}

// Fetch reads the file named by a file:// URL or bare path.
func (s *FileSource) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	path := LocalPath(uri)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrFetch, path)
	}
	if info.Size() > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrFetch, path, s.maxBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return content, nil
}

// LocalPath converts a file:// URI to a local path.
// Bare paths pass through unchanged.
func LocalPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return u.Path
	}
	return strings.TrimPrefix(uri, "file://")
}

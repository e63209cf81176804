package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.DocumentSource = (*Router)(nil)

// Router dispatches Fetch by URL scheme.
type Router struct {
	http driven.DocumentSource
	file driven.DocumentSource
}

// NewRouter creates a router over the given sources.
// A nil file source disables local paths.
func NewRouter(httpSource, fileSource driven.DocumentSource) *Router {
	return &Router{http: httpSource, file: fileSource}
}

// NewDefaultRouter routes http(s) to an HTTPSource and everything else to a FileSource.
func NewDefaultRouter() *Router {
	return NewRouter(NewHTTPSource(), NewFileSource())
}

// Fetch returns the bytes at url.
func (r *Router) Fetch(ctx context.Context, url string) ([]byte, error) {
	source, err := r.route(url)
	if err != nil {
		return nil, err
	}
	return source.Fetch(ctx, url)
}

func (r *Router) route(url string) (driven.DocumentSource, error) {
	lower := strings.ToLower(url)
	switch {
	case url == "":
		return nil, fmt.Errorf("%w: empty URL", domain.ErrFetch)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if r.http == nil {
			return nil, fmt.Errorf("%w: no HTTP source configured", domain.ErrFetch)
		}
		return r.http, nil
	case strings.Contains(lower, "://") && !strings.HasPrefix(lower, "file://"):
		return nil, fmt.Errorf("%w: unsupported URL scheme in %q", domain.ErrFetch, url)
	default:
		if r.file == nil {
			return nil, fmt.Errorf("%w: local files are disabled", domain.ErrFetch)
		}
		return r.file, nil
	}
}

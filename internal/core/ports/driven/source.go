package driven

import "context"

// DocumentSource fetches raw document bytes.
// The content type is declared by the caller, never sniffed.
type DocumentSource interface {
	// Fetch returns the bytes stored at url.
	// Failures are reported as domain.ErrFetch.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

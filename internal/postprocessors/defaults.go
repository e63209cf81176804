package postprocessors

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// DefaultChunker is the name of the built-in boundary-aware chunker.
const DefaultChunker = "chunker"

// RegisterDefaults registers all built-in chunkers with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(DefaultChunker, buildChunker)
}

// ChunkingConfig converts chunking settings into the generic config map
// accepted by Build.
func ChunkingConfig(s domain.ChunkingSettings) map[string]any {
	return map[string]any{
		"chunk_size":         s.Size,
		"overlap":            s.Overlap,
		"min_content_length": s.MinContentLength,
	}
}

// buildChunker creates a chunker from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
//   - min_content_length (int): Trimmed length a chunk must exceed (default: 50)
func buildChunker(cfg map[string]any) (driven.Chunker, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	if minLen, ok := getIntFromConfig(cfg, "min_content_length"); ok {
		opts = append(opts, chunker.WithMinContentLength(minLen))
	}

	return chunker.New(opts...)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

package driven

import "context"

// VectorStore is the Vector Store Service: namespaced storage of vectors
// with top-K similarity search.
type VectorStore interface {
	// Upsert writes records into namespace. The namespace is created implicitly.
	Upsert(ctx context.Context, namespace string, records []VectorRecord) error

	// Query returns up to topK records nearest to vector, best first.
	// Implementations that can tell report an unknown namespace as domain.ErrNotFound.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]VectorMatch, error)

	// DeleteNamespace removes every record in namespace.
	DeleteNamespace(ctx context.Context, namespace string) error

	// Close releases resources.
	Close() error
}

// VectorRecord is a stored vector with its metadata.
type VectorRecord struct {
	// ID uniquely identifies the record within its namespace.
	ID string

	// Values is the embedding.
	Values []float32

	// Metadata is stored alongside the vector and returned with matches.
	Metadata RecordMetadata
}

// RecordMetadata describes the chunk a vector was generated from.
type RecordMetadata struct {
	DocumentURL  string `json:"documentUrl"`
	DocumentType string `json:"documentType"`
	ChunkIndex   int    `json:"chunkIndex"`
	Text         string `json:"text"`
	TotalChunks  int    `json:"totalChunks"`
	Timestamp    string `json:"timestamp"`
}

// VectorMatch is a similarity search result.
type VectorMatch struct {
	// ID is the matched record.
	ID string

	// Score is the similarity score (higher is more similar).
	Score float64

	// Metadata is the stored record metadata.
	Metadata RecordMetadata
}

// Pinger is implemented by stores that can check their backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

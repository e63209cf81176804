package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// Pipeline Errors.

	// ErrConfiguration indicates invalid chunking parameters or missing provider credentials.
	ErrConfiguration = errors.New("configuration error")

	// ErrFetch indicates the document could not be fetched.
	ErrFetch = errors.New("fetch failed")

	// ErrExtraction indicates the document bytes could not be parsed as the declared type.
	ErrExtraction = errors.New("extraction failed")

	// ErrUnsupportedType indicates an unknown document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingProvider indicates the embedding provider call failed.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrVectorStore indicates writing to the vector store failed.
	ErrVectorStore = errors.New("vector store error")

	// ErrRetrieval indicates similarity search failed or the namespace does not exist.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrAnswerSynthesis indicates the completion call failed.
	ErrAnswerSynthesis = errors.New("answer synthesis failed")
)

// ErrorKind enumerates pipeline failure categories.
type ErrorKind int

// Pipeline failure categories.
const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindInvalidInput
	KindFetch
	KindExtraction
	KindUnsupportedType
	KindEmbeddingProvider
	KindVectorStore
	KindRetrieval
	KindAnswerSynthesis
)

// kindSentinels maps each kind to its sentinel error.
// Order matters: the first match wins in KindOf.
var kindSentinels = []struct {
	kind ErrorKind
	err  error
}{
	{KindConfiguration, ErrConfiguration},
	{KindUnsupportedType, ErrUnsupportedType},
	{KindFetch, ErrFetch},
	{KindExtraction, ErrExtraction},
	{KindEmbeddingProvider, ErrEmbeddingProvider},
	{KindVectorStore, ErrVectorStore},
	{KindRetrieval, ErrRetrieval},
	{KindAnswerSynthesis, ErrAnswerSynthesis},
	{KindInvalidInput, ErrInvalidInput},
}

// KindOf classifies an error by the pipeline sentinel it wraps.
// Returns KindUnknown for nil or unclassified errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindUnknown
}

// String returns the string representation.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidInput:
		return "invalid_input"
	case KindFetch:
		return "fetch"
	case KindExtraction:
		return "extraction"
	case KindUnsupportedType:
		return "unsupported_type"
	case KindEmbeddingProvider:
		return "embedding_provider"
	case KindVectorStore:
		return "vector_store"
	case KindRetrieval:
		return "retrieval"
	case KindAnswerSynthesis:
		return "answer_synthesis"
	default:
		return "unknown"
	}
}

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - DocumentSource: Fetches document bytes from a URL
//   - ExtractorRegistry: Converts bytes into plain text by declared type
//   - Chunker: Splits plain text into retrieval units
//   - EmbeddingService: Generates vector embeddings (Language Model Provider)
//   - LLMService: Generates completions (Language Model Provider)
//   - VectorStore: Namespaced vector storage and similarity search
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunCache: Memoizes processed documents. Without it every query re-processes.
//   - PromptStore: User-editable prompts. Without it built-in prompts are used.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or vector store package
package driven

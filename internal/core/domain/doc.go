// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRef: A document URL plus its declared type
//   - Chunk: A bounded segment of extracted text, the unit of retrieval
//   - Match: A retrieved chunk with its similarity score
//   - AnswerRecord: A grounded answer to one question
//   - DocumentRun: The outcome of processing one document into a namespace
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

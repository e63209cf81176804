package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType is the declared format of a fetched document.
type DocumentType string

// Supported document types.
const (
	// DocumentTypePDF is a PDF document.
	DocumentTypePDF DocumentType = "pdf"

	// DocumentTypeDOCX is an Office Open XML word processing document.
	DocumentTypeDOCX DocumentType = "docx"

	// DocumentTypeTXT is UTF-8 plain text.
	DocumentTypeTXT DocumentType = "txt"
)

// DefaultDocumentType is used when the caller does not declare a type.
const DefaultDocumentType = DocumentTypePDF

// IsValid returns true if the document type is supported.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePDF, DocumentTypeDOCX, DocumentTypeTXT:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// MIMEType returns the canonical MIME type for the document type.
func (t DocumentType) MIMEType() string {
	switch t {
	case DocumentTypePDF:
		return "application/pdf"
	case DocumentTypeDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case DocumentTypeTXT:
		return "text/plain"
	default:
		return ""
	}
}

// AllDocumentTypes returns every supported document type.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypePDF,
		DocumentTypeDOCX,
		DocumentTypeTXT,
	}
}

// ParseDocumentType converts user input into a DocumentType.
// Matching is case-insensitive. Empty input yields DefaultDocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultDocumentType, nil
	}
	t := DocumentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// DocumentRef identifies a document to process.
// It is immutable input and is never persisted by the core.
type DocumentRef struct {
	// URL is where the document bytes are fetched from.
	URL string

	// Type is the declared document format. Content is never sniffed.
	Type DocumentType
}

// Key returns the memoization key for this reference.
func (r DocumentRef) Key() string {
	return string(r.Type) + "|" + r.URL
}

// Chunk is a bounded, ordered segment of a document's extracted text.
type Chunk struct {
	// Index is the ordinal position among emitted chunks (0-based).
	// It is the join key to retrieval metadata.
	Index int

	// Text is the trimmed chunk content.
	Text string

	// Source is the document the chunk was cut from.
	Source DocumentRef
}

// DocumentRun is the outcome of processing one document into a namespace.
type DocumentRun struct {
	// Namespace is the vector store partition holding the chunks.
	Namespace string

	// Document is the processed document.
	Document DocumentRef

	// Chunks is the number of chunks produced.
	Chunks int

	// Embeddings is the number of vectors generated.
	Embeddings int

	// Stored is the number of records written to the vector store.
	Stored int

	// Stage is the last stage reached.
	Stage RunStage

	// CompletedAt is when the run reached the Ready stage.
	CompletedAt time.Time
}

// IsReady returns true if the run completed and can serve queries.
func (r *DocumentRun) IsReady() bool {
	return r != nil && r.Stage == RunStageReady
}

// ProcessResult is returned to callers of document processing.
type ProcessResult struct {
	Success      bool         `json:"success"`
	Chunks       int          `json:"chunks"`
	Embeddings   int          `json:"embeddings"`
	Stored       int          `json:"stored"`
	Namespace    string       `json:"namespace"`
	DocumentURL  string       `json:"documentUrl"`
	DocumentType DocumentType `json:"documentType"`
	Timestamp    time.Time    `json:"timestamp"`
}

// NewProcessResult builds a ProcessResult from a completed run.
func NewProcessResult(run *DocumentRun) *ProcessResult {
	return &ProcessResult{
		Success:      run.IsReady(),
		Chunks:       run.Chunks,
		Embeddings:   run.Embeddings,
		Stored:       run.Stored,
		Namespace:    run.Namespace,
		DocumentURL:  run.Document.URL,
		DocumentType: run.Document.Type,
		Timestamp:    run.CompletedAt,
	}
}

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ProcessDocumentInput is the input schema for the process_document tool.
type ProcessDocumentInput struct {
	URL       string `json:"url" jsonschema:"URL or local path of the document"`
	Type      string `json:"type,omitempty" jsonschema:"document type: pdf, docx or txt (default pdf)"`
	Namespace string `json:"namespace,omitempty" jsonschema:"vector store namespace (default: a new namespace)"`
}

// ProcessDocumentOutput is the output schema for the process_document tool.
type ProcessDocumentOutput struct {
	Chunks       int       `json:"chunks"`
	Embeddings   int       `json:"embeddings"`
	Stored       int       `json:"stored"`
	Namespace    string    `json:"namespace"`
	DocumentURL  string    `json:"document_url"`
	DocumentType string    `json:"document_type"`
	Timestamp    time.Time `json:"timestamp"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	URL      string `json:"url" jsonschema:"URL or local path of the document"`
	Question string `json:"question" jsonschema:"the question to answer from the document"`
	Type     string `json:"type,omitempty" jsonschema:"document type: pdf, docx or txt (default pdf)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string          `json:"answer"`
	Explanation string          `json:"explanation"`
	Sections    []SectionOutput `json:"sections"`
	Namespace   string          `json:"namespace"`
}

// AskBatchInput is the input schema for the ask_batch tool.
type AskBatchInput struct {
	URL       string   `json:"url" jsonschema:"URL or local path of the document"`
	Questions []string `json:"questions" jsonschema:"questions to answer, in order"`
	Type      string   `json:"type,omitempty" jsonschema:"document type: pdf, docx or txt (default pdf)"`
}

// AskBatchOutput is the output schema for the ask_batch tool.
type AskBatchOutput struct {
	Answers          []string `json:"answers"`
	Namespace        string   `json:"namespace"`
	QueriesProcessed int      `json:"queries_processed"`
	Failed           int      `json:"failed"`
}

// SearchChunksInput is the input schema for the search_chunks tool.
type SearchChunksInput struct {
	Query     string `json:"query" jsonschema:"the text to search for"`
	Namespace string `json:"namespace,omitempty" jsonschema:"namespace to search (default: default)"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchChunksOutput is the output schema for the search_chunks tool.
type SearchChunksOutput struct {
	Sections []SectionOutput `json:"sections"`
	Count    int             `json:"count"`
}

// SectionOutput is a retrieved document section.
type SectionOutput struct {
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
	ChunkIndex  int     `json:"chunk_index"`
	DocumentURL string  `json:"document_url"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_document",
		Description: "Fetch a document, split it into chunks and index their embeddings",
	}, s.handleProcessDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the content of a document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_batch",
		Description: "Answer several questions about one document; failed questions get an inline error",
	}, s.handleAskBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_chunks",
		Description: "Return the indexed chunks most similar to a query",
	}, s.handleSearchChunks)
}

// handleProcessDocument handles the process_document tool invocation.
func (s *Server) handleProcessDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessDocumentInput,
) (*mcp.CallToolResult, ProcessDocumentOutput, error) {
	docType, err := domain.ParseDocumentType(input.Type)
	if err != nil {
		return nil, ProcessDocumentOutput{}, err
	}

	result, err := s.ports.Pipeline.ProcessDocument(ctx, input.URL, docType, input.Namespace)
	if err != nil {
		return nil, ProcessDocumentOutput{}, fmt.Errorf("processing document: %w", err)
	}

	return nil, ProcessDocumentOutput{
		Chunks:       result.Chunks,
		Embeddings:   result.Embeddings,
		Stored:       result.Stored,
		Namespace:    result.Namespace,
		DocumentURL:  result.DocumentURL,
		DocumentType: result.DocumentType.String(),
		Timestamp:    result.Timestamp,
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	docType, err := domain.ParseDocumentType(input.Type)
	if err != nil {
		return nil, AskOutput{}, err
	}

	record, err := s.ports.Pipeline.ProcessQuery(ctx, input.Question, input.URL, docType)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("answering question: %w", err)
	}

	return nil, AskOutput{
		Answer:      record.Answer,
		Explanation: record.Explanation,
		Sections:    toSections(record.RelevantSections),
		Namespace:   record.Namespace,
	}, nil
}

// handleAskBatch handles the ask_batch tool invocation.
func (s *Server) handleAskBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskBatchInput,
) (*mcp.CallToolResult, AskBatchOutput, error) {
	docType, err := domain.ParseDocumentType(input.Type)
	if err != nil {
		return nil, AskBatchOutput{}, err
	}

	result, err := s.ports.Pipeline.ProcessMultipleQueries(ctx, input.Questions, input.URL, docType)
	if err != nil {
		return nil, AskBatchOutput{}, fmt.Errorf("answering questions: %w", err)
	}

	return nil, AskBatchOutput{
		Answers:          result.Answers,
		Namespace:        result.Namespace,
		QueriesProcessed: result.QueriesProcessed,
		Failed:           result.Failed(),
	}, nil
}

// handleSearchChunks handles the search_chunks tool invocation.
func (s *Server) handleSearchChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchChunksInput,
) (*mcp.CallToolResult, SearchChunksOutput, error) {
	matches, err := s.ports.Pipeline.SearchChunks(ctx, input.Query, input.Namespace, input.TopK)
	if err != nil {
		return nil, SearchChunksOutput{}, err
	}

	return nil, SearchChunksOutput{
		Sections: toSections(matches),
		Count:    len(matches),
	}, nil
}

func toSections(matches []domain.Match) []SectionOutput {
	sections := make([]SectionOutput, len(matches))
	for i, m := range matches {
		sections[i] = SectionOutput{
			Score:       m.Score,
			Text:        m.ChunkText,
			ChunkIndex:  m.ChunkIndex,
			DocumentURL: m.DocumentURL,
		}
	}
	return sections
}

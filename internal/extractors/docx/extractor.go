// Package docx extracts text from Office Open XML word processing documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// documentPart is the zip entry holding the main document body.
const documentPart = "word/document.xml"

// ErrMissingDocumentPart is returned when the archive has no main document.
var ErrMissingDocumentPart = errors.New("docx: word/document.xml not found")

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Type returns the document type this extractor handles.
func (e *Extractor) Type() domain.DocumentType {
	return domain.DocumentTypeDOCX
}

// Extract reads the paragraphs of word/document.xml as lines of text.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: open archive: %w", domain.ErrExtraction, err)
	}

	body, err := readDocumentPart(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	text, err := parseDocumentXML(body)
	if err != nil {
		return "", fmt.Errorf("%w: docx: parse document: %w", domain.ErrExtraction, err)
	}
	return text, nil
}

// readDocumentPart returns the contents of word/document.xml.
func readDocumentPart(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: open %s: %w", documentPart, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("docx: read %s: %w", documentPart, err)
		}
		return content, nil
	}
	return nil, ErrMissingDocumentPart
}

// parseDocumentXML walks the document tokens in order so that tabs and
// breaks inside runs keep their position relative to the run text.
func parseDocumentXML(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		result     strings.Builder
		inText     bool
		paragraphs int
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if paragraphs > 0 {
					result.WriteString("\n")
				}
				paragraphs++
			case "t":
				inText = true
			case "tab":
				result.WriteString("\t")
			case "br", "cr":
				result.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				result.Write(t)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}

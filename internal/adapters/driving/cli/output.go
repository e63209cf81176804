package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// maxSnippet is the number of characters of a section shown in text output.
const maxSnippet = 200

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printSections(cmd *cobra.Command, matches []domain.Match) {
	out := cmd.OutOrStdout()
	for i, m := range matches {
		score := paint(out, styles.Score, fmt.Sprintf("%.3f", m.Score))
		cmd.Printf("  [%d] chunk %d (%s)\n", i+1, m.ChunkIndex, score)
		cmd.Printf("      %s\n", paint(out, styles.Muted, snippet(m.ChunkText)))
	}
}

func printAnswer(cmd *cobra.Command, record *domain.AnswerRecord, showSections bool) {
	out := cmd.OutOrStdout()
	cmd.Println(paint(out, styles.Title, "Q: "+record.Query))
	cmd.Println(paint(out, styles.Answer, record.Answer))
	cmd.Println(paint(out, styles.Muted, record.Explanation))
	if showSections && len(record.RelevantSections) > 0 {
		cmd.Println()
		cmd.Println(paint(out, styles.Label, "Sources:"))
		printSections(cmd, record.RelevantSections)
	}
}

func printError(w io.Writer, msg string) string {
	return paint(w, styles.Error, msg)
}

// snippet collapses whitespace and truncates text for display.
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxSnippet {
		return text
	}
	return string(runes[:maxSnippet]) + "..."
}

// parseType resolves the --type flag, inferring it from the path when empty.
func parseType(flag, path string) (domain.DocumentType, error) {
	if flag != "" {
		return domain.ParseDocumentType(flag)
	}
	switch strings.ToLower(filepath.Ext(stripQuery(path))) {
	case ".docx":
		return domain.DocumentTypeDOCX, nil
	case ".txt", ".text", ".md":
		return domain.DocumentTypeTXT, nil
	default:
		return domain.DefaultDocumentType, nil
	}
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}

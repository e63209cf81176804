package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	processType      string
	processNamespace string
	processGlob      string
	processJSON      bool
)

var processCmd = &cobra.Command{
	Use:   "process [url|path]",
	Short: "Index a document for questions",
	Long: `Fetches a document, extracts its text, splits it into chunks and stores
their embeddings in the vector store.

With --glob the argument is a directory and every matching file is processed.
Patterns support ** (e.g. "**/*.pdf"). Without --type, each file's type is
inferred from its extension.`,
	Example: `  docqa process https://example.com/policy.pdf
  docqa process ./handbook.docx --namespace hr
  docqa process ./contracts --glob "**/*.{pdf,docx}"`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processType, "type", "t", "", "document type: pdf, docx or txt (default: from extension, else pdf)")
	processCmd.Flags().StringVarP(&processNamespace, "namespace", "n", "", "vector store namespace (default: a new namespace per document)")
	processCmd.Flags().StringVarP(&processGlob, "glob", "g", "", "process files under the directory matching this pattern")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(processCmd)
}

// processTarget is one document to process.
type processTarget struct {
	url     string
	docType domain.DocumentType
}

func runProcess(cmd *cobra.Command, args []string) error {
	targets, err := processTargets(args[0])
	if err != nil {
		return err
	}

	progress := newEmbedProgress(cmd.ErrOrStderr(), "Embedding")
	rt, err := openRuntime(cmd, RuntimeOptions{Progress: progress.callback()})
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	results := make([]*domain.ProcessResult, 0, len(targets))
	for _, target := range targets {
		result, err := rt.Pipeline.ProcessDocument(cmd.Context(), target.url, target.docType, processNamespace)
		if err != nil {
			return fmt.Errorf("processing %s: %w", target.url, err)
		}
		results = append(results, result)
		if !processJSON {
			printProcessResult(cmd, result)
		}
	}

	if processJSON {
		if len(results) == 1 {
			return writeJSON(cmd, results[0])
		}
		return writeJSON(cmd, results)
	}
	return nil
}

// processTargets resolves the argument and flags into documents to process.
func processTargets(arg string) ([]processTarget, error) {
	if processGlob == "" {
		docType, err := parseType(processType, arg)
		if err != nil {
			return nil, err
		}
		return []processTarget{{url: arg, docType: docType}}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", arg)
	}
	if !doublestar.ValidatePattern(processGlob) {
		return nil, fmt.Errorf("invalid glob pattern %q", processGlob)
	}

	matches, err := doublestar.Glob(os.DirFS(arg), processGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", processGlob, err)
	}
	if len(matches) == 0 {
		return nil, errors.New("no files match the pattern")
	}

	targets := make([]processTarget, 0, len(matches))
	for _, match := range matches {
		path := filepath.Join(arg, filepath.FromSlash(match))
		docType, err := parseType(processType, path)
		if err != nil {
			return nil, err
		}
		targets = append(targets, processTarget{url: path, docType: docType})
	}
	return targets, nil
}

func printProcessResult(cmd *cobra.Command, result *domain.ProcessResult) {
	out := cmd.OutOrStdout()
	cmd.Printf("%s %s\n", paint(out, styles.Success, "Processed"), result.DocumentURL)
	cmd.Printf("  Type: %s\n", result.DocumentType)
	cmd.Printf("  Namespace: %s\n", paint(out, styles.Label, result.Namespace))
	cmd.Printf("  Chunks: %d  Embeddings: %d  Stored: %d\n", result.Chunks, result.Embeddings, result.Stored)
}

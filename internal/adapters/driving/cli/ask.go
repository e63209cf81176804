package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askType     string
	askJSON     bool
	askSections bool
)

var askCmd = &cobra.Command{
	Use:   "ask [url|path] [question]",
	Short: "Ask one question about a document",
	Long: `Answers a question using only the content of the document.

The document is processed on first use. With memoization enabled
(pipeline.memoize), later questions about the same document reuse it.`,
	Example: `  docqa ask https://example.com/policy.pdf "What is the grace period?"`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askType, "type", "t", "", "document type: pdf, docx or txt (default: from extension, else pdf)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer record as JSON")
	askCmd.Flags().BoolVarP(&askSections, "sources", "s", false, "show the document sections used")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	url := args[0]
	question := strings.Join(args[1:], " ")

	docType, err := parseType(askType, url)
	if err != nil {
		return err
	}

	progress := newEmbedProgress(cmd.ErrOrStderr(), "Embedding")
	rt, err := openRuntime(cmd, RuntimeOptions{Progress: progress.callback()})
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	record, err := rt.Pipeline.ProcessQuery(cmd.Context(), question, url, docType)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		return writeJSON(cmd, record)
	}
	printAnswer(cmd, record, askSections)
	return nil
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	runType      string
	runJSON      bool
	runQuestions string
)

var runCmd = &cobra.Command{
	Use:   "run [url|path] [question...]",
	Short: "Answer several questions about one document",
	Long: `Processes the document once and answers each question in order.

A question that fails is reported inline as "Error processing query: ..."
and does not stop the others. Questions can also be read one per line from
a file with --questions (use - for stdin).`,
	Example: `  docqa run ./policy.pdf "What is covered?" "What is excluded?"
  docqa run ./policy.pdf --questions questions.txt --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runType, "type", "t", "", "document type: pdf, docx or txt (default: from extension, else pdf)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output results as JSON")
	runCmd.Flags().StringVarP(&runQuestions, "questions", "q", "", "read questions from a file, one per line (- for stdin)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	url := args[0]
	questions := args[1:]

	if runQuestions != "" {
		fromFile, err := readQuestions(cmd, runQuestions)
		if err != nil {
			return err
		}
		questions = append(questions, fromFile...)
	}
	if len(questions) == 0 {
		return errors.New("at least one question is required")
	}

	docType, err := parseType(runType, url)
	if err != nil {
		return err
	}

	progress := newEmbedProgress(cmd.ErrOrStderr(), "Embedding")
	rt, err := openRuntime(cmd, RuntimeOptions{Progress: progress.callback()})
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	result, err := rt.Pipeline.ProcessMultipleQueries(cmd.Context(), questions, url, docType)
	if err != nil {
		return fmt.Errorf("processing document: %w", err)
	}

	if runJSON {
		return writeJSON(cmd, result)
	}
	printBatch(cmd, result)
	return nil
}

func printBatch(cmd *cobra.Command, result *domain.BatchResult) {
	out := cmd.OutOrStdout()
	for i, outcome := range result.Outcomes {
		cmd.Println(paint(out, styles.Title, fmt.Sprintf("%d. %s", i+1, outcome.Query)))
		if outcome.OK() {
			cmd.Println(paint(out, styles.Answer, outcome.Text()))
		} else {
			cmd.Println(printError(out, outcome.Text()))
		}
		cmd.Println()
	}

	summary := fmt.Sprintf("%d questions answered from %s (namespace %s)",
		result.QueriesProcessed, result.DocumentURL, result.Namespace)
	if failed := result.Failed(); failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	cmd.Println(paint(out, styles.Muted, summary))
}

// readQuestions reads non-empty lines from path, or from stdin when path is "-".
func readQuestions(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening questions file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var questions []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			questions = append(questions, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}
	return questions, nil
}

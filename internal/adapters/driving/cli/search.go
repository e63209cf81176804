package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchNamespace string
	searchTopK      int
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chunks",
	Long: `Returns the chunks in a namespace most similar to the query.
No answer is generated; use ask for that.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchNamespace, "namespace", "n", "default", "namespace to search")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "maximum number of chunks to return")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	rt, err := openRuntime(cmd, RuntimeOptions{})
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	matches, err := rt.Pipeline.SearchChunks(cmd.Context(), query, searchNamespace, searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return writeJSON(cmd, matches)
	}

	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	printSections(cmd, matches)
	return nil
}

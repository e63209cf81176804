package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var namespaceCmd = &cobra.Command{
	Use:   "namespace",
	Short: "Manage vector store namespaces",
}

var namespaceDeleteCmd = &cobra.Command{
	Use:   "delete [namespace]",
	Short: "Delete every vector in a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceDelete,
}

func init() {
	namespaceCmd.AddCommand(namespaceDeleteCmd)
	rootCmd.AddCommand(namespaceCmd)
}

func runNamespaceDelete(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd, RuntimeOptions{})
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := rt.Pipeline.DeleteNamespace(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting namespace: %w", err)
	}
	cmd.Printf("Deleted namespace %s\n", args[0])
	return nil
}

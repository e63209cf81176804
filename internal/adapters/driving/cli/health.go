package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that providers are reachable",
	Long: `Pings the embedding provider, the LLM and the vector store.
Exits with an error if any of them is unreachable.`,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd, RuntimeOptions{})
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if rt.Health == nil {
		return errors.New("health service not configured")
	}

	report := rt.Health.Check(cmd.Context())
	if healthJSON {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else {
		printHealth(cmd, report)
	}

	if report.Status != domain.HealthHealthy {
		return fmt.Errorf("status %s", report.Status)
	}
	return nil
}

func printHealth(cmd *cobra.Command, report *domain.HealthReport) {
	out := cmd.OutOrStdout()
	for _, c := range report.Components {
		name := c.Name
		if c.Model != "" {
			name += " (" + c.Model + ")"
		}
		if c.Healthy {
			cmd.Printf("  %s %s %s\n", paint(out, styles.Success, "ok  "), name,
				paint(out, styles.Muted, c.Latency.Round(time.Millisecond).String()))
		} else {
			cmd.Printf("  %s %s: %s\n", printError(out, "fail"), name, c.Error)
		}
	}
	cmd.Printf("Status: %s\n", report.Status)
}

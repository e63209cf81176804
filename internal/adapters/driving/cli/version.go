package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionJSON bool

// buildInfo is what the version command reports.
type buildInfo struct {
	Version  string `json:"version"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docqa version and build platform",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output build information as JSON")
	rootCmd.AddCommand(versionCmd)
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  version,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := currentBuild()
	if versionJSON {
		return writeJSON(cmd, info)
	}
	cmd.Printf("docqa version %s (%s, %s)\n", info.Version, info.Go, info.Platform)
	return nil
}

// Package cli provides the cobra command tree for docqa.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Answer questions about documents",
	Long: `docqa answers natural-language questions about a document.

The document (PDF, DOCX or plain text, fetched from a URL or a local path)
is split into chunks, embedded and indexed. Each question retrieves the most
relevant chunks and a language model answers from them alone.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Runtime is the set of services one command works with.
type Runtime struct {
	Pipeline driving.PipelineService
	Health   driving.HealthService

	// Close releases the runtime's resources. May be nil.
	Close func() error
}

// RuntimeOptions customises a Runtime for the command that opens it.
type RuntimeOptions struct {
	// Progress is called after each embedding batch.
	Progress func(done, total int)

	// WatchPrompts reloads prompt files when they change on disk.
	WatchPrompts bool
}

// RuntimeFactory builds a Runtime from the current settings.
type RuntimeFactory func(ctx context.Context, opts RuntimeOptions) (*Runtime, error)

var (
	settingsService driving.SettingsService
	runtimeFactory  RuntimeFactory
)

// SetServices injects the services used by commands.
func SetServices(settings driving.SettingsService, factory RuntimeFactory) {
	settingsService = settings
	runtimeFactory = factory
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command with ctx.
// Command output goes to stdout; cobra would otherwise print to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// openRuntime builds a runtime for cmd. Callers must call closeRuntime.
func openRuntime(cmd *cobra.Command, opts RuntimeOptions) (*Runtime, error) {
	if runtimeFactory == nil {
		return nil, errors.New("pipeline not configured")
	}
	rt, err := runtimeFactory(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	if rt == nil || rt.Pipeline == nil {
		return nil, errors.New("pipeline not configured")
	}
	return rt, nil
}

func closeRuntime(rt *Runtime) {
	if rt == nil || rt.Close == nil {
		return
	}
	if err := rt.Close(); err != nil {
		logger.Warn("closing runtime: %v", err)
	}
}

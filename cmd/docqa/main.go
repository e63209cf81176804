// Command docqa answers questions about documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
)

// version is set by the linker.
var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := openConfigStore(os.Getenv(envConfigDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}

	settings := services.NewSettingsService(configStore, ai.NewConfigValidator())

	cli.SetVersion(version)
	cli.SetServices(settings, newRuntimeFactory(settings, os.Getenv(envPromptDir)))

	// cobra prints the error itself
	return cli.Execute(ctx)
}

// openConfigStore opens the config file in dir. A dir of "-" keeps settings
// in memory, so only defaults and environment variables apply.
func openConfigStore(dir string) (driven.ConfigStore, error) {
	if dir == ephemeralConfig {
		return memory.NewConfigStore(), nil
	}
	return file.NewConfigStore(dir)
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers and the vector store.

API keys set in the environment (OPENAI_API_KEY, ANTHROPIC_API_KEY,
PINECONE_API_KEY) take precedence over stored keys and are never saved.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the provider that turns document chunks and questions into vectors.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the provider that writes answers from retrieved document sections.`,
	RunE:  runSettingsLLM,
}

var settingsVectorStoreCmd = &cobra.Command{
	Use:   "vector-store",
	Short: "Configure vector store",
	Long: `Select where document vectors are kept.

Available backends:
  memory   - in process memory, lost on exit
  sqlite   - local SQLite database (~/.docqa/data/vectors.db)
  pinecone - a Pinecone index (requires host and API key)`,
	RunE: runSettingsVectorStore,
}

// stdin is where interactive prompts read from.
var stdin io.Reader = os.Stdin

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsVectorStoreCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	cmd.Println(paint(out, styles.Title, "Current Settings"))
	cmd.Println("================")
	cmd.Println()

	// Embedding settings
	cmd.Println(paint(out, styles.Label, "[Embedding]"))
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider.RequiresAPIKey(), settings.Embedding.APIKey)
	cmd.Printf("  Batch size: %d\n", settings.Embedding.BatchSize)
	printStatus(cmd, settings.Embedding.IsConfigured())
	cmd.Println()

	// LLM settings
	cmd.Println(paint(out, styles.Label, "[LLM]"))
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printAPIKey(cmd, settings.LLM.Provider.RequiresAPIKey(), settings.LLM.APIKey)
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	cmd.Printf("  Temperature: %s\n", strconv.FormatFloat(settings.LLM.Temperature, 'f', -1, 64))
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	// Vector store settings
	cmd.Println(paint(out, styles.Label, "[Vector Store]"))
	cmd.Printf("  Backend: %s\n", settings.VectorStore.Backend)
	switch settings.VectorStore.Backend {
	case domain.VectorStoreSQLite:
		if settings.VectorStore.Path != "" {
			cmd.Printf("  Path: %s\n", settings.VectorStore.Path)
		}
	case domain.VectorStorePinecone:
		cmd.Printf("  Host: %s\n", settings.VectorStore.Host)
		printAPIKey(cmd, true, settings.VectorStore.APIKey)
	}
	printStatus(cmd, settings.VectorStore.IsConfigured())
	cmd.Println()

	// Pipeline settings
	cmd.Println(paint(out, styles.Label, "[Pipeline]"))
	cmd.Printf("  Chunk size: %d  Overlap: %d  Min content: %d\n",
		settings.Chunking.Size, settings.Chunking.Overlap, settings.Chunking.MinContentLength)
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Memoize: %t (%s)\n", settings.Pipeline.Memoize, settings.Pipeline.RunCache)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("%s %v\n", paint(out, styles.Warning, "Warning:"), err)
		cmd.Println("Run 'docqa settings embedding' or 'docqa settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printAPIKey(cmd *cobra.Command, required bool, key string) {
	if !required {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(stdin)
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(stdin)
	return configureLLMProvider(cmd, reader)
}

func runSettingsVectorStore(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(stdin)
	backends := []domain.VectorStoreBackend{
		domain.VectorStoreMemory,
		domain.VectorStoreSQLite,
		domain.VectorStorePinecone,
	}

	cmd.Println("Select Vector Store")
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)

	vs := domain.VectorStoreSettings{Backend: backends[idx-1]}
	switch vs.Backend {
	case domain.VectorStoreSQLite:
		cmd.Print("Enter data directory [~/.docqa/data]: ")
		vs.Path = readLine(reader)
	case domain.VectorStorePinecone:
		cmd.Print("Enter index host: ")
		vs.Host = readLine(reader)
		if vs.Host == "" {
			return errors.New("index host is required for pinecone")
		}
		cmd.Print("Enter API key (blank to use PINECONE_API_KEY): ")
		vs.APIKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetVectorStore(vs); err != nil {
		return fmt.Errorf("failed to configure vector store: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateVectorStoreConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("vector store validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Vector store configured: %s\n", vs.Backend)
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed; blank falls back to the environment
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use environment): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use environment): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, else a line from reader.
func readPassword(reader *bufio.Reader) string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/fetch"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/extractors"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors"
)

// Environment variables that relocate docqa's files.
const (
	envConfigDir = "DOCQA_CONFIG_DIR"
	envPromptDir = "DOCQA_PROMPT_DIR"

	// ephemeralConfig as DOCQA_CONFIG_DIR disables the config file.
	ephemeralConfig = "-"
)

// newRuntimeFactory returns a factory that builds the pipeline from the
// settings current at the time each command runs.
func newRuntimeFactory(settings driving.SettingsService, promptDir string) cli.RuntimeFactory {
	return func(ctx context.Context, opts cli.RuntimeOptions) (*cli.Runtime, error) {
		appSettings, err := settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}

		adapters, err := ai.Initialise(appSettings)
		if err != nil {
			return nil, err
		}

		var closers []func() error
		closers = append(closers, adapters.Close)
		closeAll := func() error {
			var errs []error
			for i := len(closers) - 1; i >= 0; i-- {
				errs = append(errs, closers[i]())
			}
			return errors.Join(errs...)
		}
		fail := func(err error) (*cli.Runtime, error) {
			_ = closeAll()
			return nil, err
		}

		prompts, err := file.NewPromptStore(promptDir, services.DefaultPrompts())
		if err != nil {
			return fail(fmt.Errorf("opening prompts: %w", err))
		}
		if opts.WatchPrompts {
			watcher, err := file.NewPromptWatcher(prompts)
			if err != nil {
				// Prompts still load; edits need a restart
				logger.Warn("prompt hot reload disabled: %v", err)
			} else {
				watcher.Start(ctx)
				closers = append(closers, watcher.Close)
			}
		}

		chunkers := postprocessors.NewRegistry()
		postprocessors.RegisterDefaults(chunkers)
		chunker, err := chunkers.Build(postprocessors.DefaultChunker, postprocessors.ChunkingConfig(appSettings.Chunking))
		if err != nil {
			return fail(fmt.Errorf("building chunker: %w", err))
		}

		batcherOpts := []services.BatcherOption{
			services.WithBatchSize(appSettings.Embedding.BatchSize),
			services.WithRequestsPerSecond(appSettings.Embedding.RequestsPerSecond),
		}
		if opts.Progress != nil {
			batcherOpts = append(batcherOpts, services.WithProgress(opts.Progress))
		}

		answers := services.NewAnswerSynthesizer(adapters.LLMService, prompts)
		answers.SetCompletionOptions(appSettings.LLM.MaxTokens, appSettings.LLM.Temperature)

		pipeline, err := services.NewPipelineService(services.PipelineDeps{
			Source:     fetch.NewDefaultRouter(),
			Extractors: extractors.NewDefaultRegistry(),
			Chunker:    chunker,
			Embedder:   services.NewEmbeddingBatcher(adapters.EmbeddingService, batcherOpts...),
			Vectors:    services.NewVectorStoreAdapter(adapters.VectorStore),
			Answers:    answers,
			Runs:       adapters.RunCache,
			TopK:       appSettings.Retrieval.TopK,
		})
		if err != nil {
			return fail(err)
		}

		logger.Debug("pipeline ready: embedding=%s llm=%s store=%s",
			adapters.EmbeddingService.ModelName(), adapters.LLMService.ModelName(), appSettings.VectorStore.Backend)

		return &cli.Runtime{
			Pipeline: pipeline,
			Health:   services.NewHealthService(adapters.EmbeddingService, adapters.LLMService, adapters.VectorStore),
			Close:    closeAll,
		}, nil
	}
}

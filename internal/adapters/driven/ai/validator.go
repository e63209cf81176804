package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks settings before they are used by the pipeline.
// Failures wrap the matching unavailable sentinel from domain.
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if err := ValidateEmbeddingConfig(config); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if err := ValidateLLMConfig(config); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}

func (v *ConfigValidator) ValidateVectorStore(config *domain.VectorStoreSettings) error {
	if err := ValidateVectorStoreConfig(config); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// ValidateVectorStoreConfig opens the configured store and pings it if it
// implements driven.Pinger. Memory stores always validate.
func ValidateVectorStoreConfig(settings *domain.VectorStoreSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	store, err := CreateVectorStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	pinger, ok := store.(driven.Pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return pinger.Ping(ctx)
}

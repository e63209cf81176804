package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Default completion options for answer synthesis.
const (
	DefaultAnswerMaxTokens   = 1000
	DefaultAnswerTemperature = 0.3
)

// DefaultAnswerSystemPrompt is used when no prompt store overrides it.
const DefaultAnswerSystemPrompt = "You are a professional document analysis assistant. " +
	"Provide accurate, detailed answers based on the provided context. " +
	"Always cite specific sections when possible."

// Placeholders substituted into the user prompt.
const (
	PlaceholderContext = "{{context}}"
	PlaceholderQuery   = "{{query}}"
)

// DefaultAnswerUserPrompt is used when no prompt store overrides it.
const DefaultAnswerUserPrompt = `You are an intelligent query retrieval system specialized in insurance, legal, HR, and compliance domains.

Context from relevant document sections:
{{context}}

User Query: {{query}}

Please provide a comprehensive answer based on the context above. If the information is not available in the context, clearly state that. Be specific and include relevant details, conditions, and limitations mentioned in the documents.

Answer:`

// DefaultPrompts returns the built-in answer prompts keyed by prompt name.
// Prompt stores use them to seed user-editable copies.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptAnswerSystem: DefaultAnswerSystemPrompt,
		driven.PromptAnswerUser:   DefaultAnswerUserPrompt,
	}
}

// contextSeparator joins retrieved chunk texts in the prompt.
const contextSeparator = "\n\n"

// AnswerSynthesizer produces grounded answers from retrieved chunks.
type AnswerSynthesizer struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	maxTokens   int
	temperature float64
}

// NewAnswerSynthesizer creates a synthesizer. prompts may be nil, in which
// case the built-in prompts are used.
func NewAnswerSynthesizer(llm driven.LLMService, prompts driven.PromptStore) *AnswerSynthesizer {
	return &AnswerSynthesizer{
		llm:         llm,
		prompts:     prompts,
		maxTokens:   DefaultAnswerMaxTokens,
		temperature: DefaultAnswerTemperature,
	}
}

// SetCompletionOptions overrides max tokens and temperature.
// A non-positive maxTokens keeps the current value.
func (s *AnswerSynthesizer) SetCompletionOptions(maxTokens int, temperature float64) {
	if maxTokens > 0 {
		s.maxTokens = maxTokens
	}
	if temperature >= 0 {
		s.temperature = temperature
	}
}

// Synthesize answers query from matches.
// The whole retrieved context is sent; callers bound it through topK and chunk size.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, query string, matches []domain.Match) (domain.Answer, error) {
	if s.llm == nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrAnswerSynthesis, domain.ErrLLMUnavailable)
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.ChunkText
	}

	req := driven.CompletionRequest{
		System:      s.loadPrompt(driven.PromptAnswerSystem, DefaultAnswerSystemPrompt),
		User:        renderUserPrompt(s.loadPrompt(driven.PromptAnswerUser, DefaultAnswerUserPrompt), strings.Join(texts, contextSeparator), query),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	logger.Debug("Synthesizing answer from %d sections with %s", len(matches), s.llm.ModelName())
	text, err := s.llm.Complete(ctx, req)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrAnswerSynthesis, err)
	}

	return domain.Answer{
		Text:        text,
		Explanation: Explain(matches),
	}, nil
}

// renderUserPrompt fills the placeholders of tmpl in a single pass, so
// substituted text is never expanded again.
func renderUserPrompt(tmpl, context, query string) string {
	return strings.NewReplacer(PlaceholderContext, context, PlaceholderQuery, query).Replace(tmpl)
}

// Explain summarises the retrieval behind an answer.
// It reports the number of matches and their score range.
func Explain(matches []domain.Match) string {
	if len(matches) == 0 {
		return "Based on 0 relevant document sections; no similarity scores available"
	}

	lo, hi := matches[0].Score, matches[0].Score
	for _, m := range matches[1:] {
		lo = min(lo, m.Score)
		hi = max(hi, m.Score)
	}
	return fmt.Sprintf("Based on %d relevant document sections with similarity scores ranging from %s to %s",
		len(matches), formatScore(lo), formatScore(hi))
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func (s *AnswerSynthesizer) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		if err != nil {
			logger.Debug("Using built-in %s prompt: %v", name, err)
		}
		return fallback
	}
	return prompt
}

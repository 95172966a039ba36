package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const (
	titleVar      = "{{.Title}}"
	preferenceVar = "{{.Preference}}"
)

// Model completes a single text prompt
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicModel scores articles through the Anthropic messages API
type AnthropicModel struct {
	apiKey       string
	systemPrompt string
	settings     RankerSettings
}

// NewAnthropicModel creates a model client. The API key must come from a secret source.
func NewAnthropicModel(apiKey, systemPrompt string, settings RankerSettings) (*AnthropicModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required: use --api-key, MYRITHM_API_KEY, ANTHROPIC_API_KEY or %s", secretsKeyFile)
	}
	if settings.Model == "" {
		return nil, fmt.Errorf("ranker.model is required")
	}
	return &AnthropicModel{
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		settings:     settings,
	}, nil
}

// Complete sends prompt and returns the text of the first content block
func (m *AnthropicModel) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       m.settings.Model,
		MaxTokens:   m.settings.MaxTokens,
		Temperature: m.settings.Temperature,
	}
	response, err := anthropic.PromptWithSettings(m.systemPrompt, prompt, "", m.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in model response")
	}
	return response.Content[0].Text, nil
}

// ScoringPrompt renders the per-article prompt from a template
type ScoringPrompt struct {
	template string
}

// NewScoringPrompt validates that the template references both the title and the preference
func NewScoringPrompt(template string) (*ScoringPrompt, error) {
	if !strings.Contains(template, titleVar) {
		return nil, fmt.Errorf("scorer user prompt template must contain %s variable", titleVar)
	}
	if !strings.Contains(template, preferenceVar) {
		return nil, fmt.Errorf("scorer user prompt template must contain %s variable", preferenceVar)
	}
	return &ScoringPrompt{template: template}, nil
}

// Render fills in the article title and the reader's preference
func (p *ScoringPrompt) Render(title, preference string) string {
	prompt := strings.ReplaceAll(p.template, titleVar, title)
	prompt = strings.ReplaceAll(prompt, preferenceVar, preference)
	return strings.TrimSpace(prompt)
}

// ParseRank reads the model response as a number. The whole trimmed response must parse;
// NaN and infinities are rejected.
func ParseRank(response string) (*float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(response), 64)
	if err != nil {
		return nil, fmt.Errorf("rank %q is not a number", response)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("rank %q is not a finite number", response)
	}
	return &value, nil
}

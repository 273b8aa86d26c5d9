package gamegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// payloadOutput is the raw LLM response before validation.
type payloadOutput struct {
	Template string       `json:"template"`
	Prompt   string       `json:"prompt"`
	Items    []itemOutput `json:"items"`
}

type itemOutput struct {
	Name      string `json:"name"`
	IsCorrect bool   `json:"is_correct"`
	ImageHint string `json:"image_hint"`
}

// Generate produces a single question payload for the given input context.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*content.GamePayload, error) {
	ctx = llm.WithPurpose(ctx, "game-content")

	userMsg := buildUserMessage(input, g.config)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      PayloadSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("game content generation failed: %w", err)
	}

	var raw payloadOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	payload := &content.GamePayload{
		ID:       uuid.NewString(),
		Template: content.GameTemplate(raw.Template),
		Prompt:   raw.Prompt,
		Items:    make([]content.AssessmentItem, len(raw.Items)),
	}
	for i, it := range raw.Items {
		payload.Items[i] = content.AssessmentItem{
			ID:        uuid.NewString(),
			Name:      it.Name,
			IsCorrect: it.IsCorrect,
			ImageRef:  it.ImageHint,
		}
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(payload, input); verr != nil {
			return nil, verr
		}
	}

	// Presentation-order shuffle only; correctness flags travel with items.
	content.ShuffleItems(payload.Items, g.config.Shuffle)

	return payload, nil
}

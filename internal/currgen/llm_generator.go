package currgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

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

// curriculumOutput is the raw LLM response before validation.
type curriculumOutput struct {
	Modules []moduleOutput `json:"modules"`
}

type moduleOutput struct {
	Title       string `json:"title"`
	Template    string `json:"template"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Interest    string `json:"interest"`
	IsBreak     bool   `json:"is_break"`
}

// Generate produces a session curriculum for the given input context.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*content.Curriculum, error) {
	ctx = llm.WithPurpose(ctx, "curriculum")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      CurriculumSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("curriculum generation failed: %w", err)
	}

	var raw curriculumOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if err := g.checkPlan(raw); err != nil {
		return nil, err
	}

	curr := &content.Curriculum{
		ID:          uuid.NewString(),
		Modules:     make([]content.Module, len(raw.Modules)),
		GeneratedAt: time.Now(),
	}
	for i, m := range raw.Modules {
		curr.Modules[i] = content.Module{
			ID:          uuid.NewString(),
			Title:       m.Title,
			Template:    content.GameTemplate(m.Template),
			Kind:        content.ModuleKind(m.Kind),
			Description: m.Description,
			Interest:    m.Interest,
			IsBreak:     m.IsBreak,
		}
	}

	return curr, nil
}

// checkPlan validates the raw plan's structure before it is accepted.
func (g *LLMGenerator) checkPlan(raw curriculumOutput) error {
	n := len(raw.Modules)
	if g.config.MinModules > 0 && n < g.config.MinModules {
		return fmt.Errorf("curriculum validation failed: %d modules, want at least %d", n, g.config.MinModules)
	}
	if g.config.MaxModules > 0 && n > g.config.MaxModules {
		return fmt.Errorf("curriculum validation failed: %d modules, want at most %d", n, g.config.MaxModules)
	}

	for i, m := range raw.Modules {
		if m.Title == "" || m.Description == "" {
			return fmt.Errorf("curriculum validation failed: module %d missing title or description", i)
		}
		if !content.GameTemplate(m.Template).Valid() {
			return fmt.Errorf("curriculum validation failed: module %d has unknown template %q", i, m.Template)
		}
		switch content.ModuleKind(m.Kind) {
		case content.KindGame, content.KindOfflineTask, content.KindVerbal:
		default:
			return fmt.Errorf("curriculum validation failed: module %d has unknown kind %q", i, m.Kind)
		}
	}

	return nil
}

// Package gamegen produces mini-game question payloads using an LLM
// provider. It is the Game Content Generator collaborator consumed by the
// module content generation executor.
package gamegen

import (
	"context"

	"github.com/sprouthq/sprout/internal/content"
)

// Generator produces a single question payload for a module.
type Generator interface {
	// Generate returns a validated question payload, or an error after the
	// provider's internal retries are exhausted. Callers treat an error as
	// "no question produced" and decide whether to keep generating.
	Generate(ctx context.Context, input GenerateInput) (*content.GamePayload, error)
}

// GenerateInput holds all context needed to generate one question.
type GenerateInput struct {
	// ModuleType is the requested game template for this module.
	ModuleType content.GameTemplate

	// Interest themes the question around something the child loves.
	Interest string

	// Description is the curriculum's learning goal for the module.
	Description string

	// GalleryRef optionally points at an image gallery the UI can draw
	// item pictures from.
	GalleryRef string

	// AvoidList contains item names already used in this module's earlier
	// questions, so the generator does not repeat objects within a pack.
	AvoidList []string

	// Profile provides the age band for dignity rules and the name for
	// personalization.
	Profile content.ChildProfile
}

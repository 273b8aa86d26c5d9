package gamegen

import (
	"fmt"

	"github.com/sprouthq/sprout/internal/content"
)

// Validator checks a generated payload before it is accepted.
type Validator interface {
	Validate(payload *content.GamePayload, input GenerateInput) error
}

// ValidationError describes a payload that failed validation. The scheduler's
// retry decorator treats these like any other generation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload validation failed: %s: %s", e.Field, e.Reason)
}

// StructuralValidator verifies the shape of a payload: a known template,
// non-empty items, and correctness flags matching the template's rules.
type StructuralValidator struct{}

var _ Validator = (*StructuralValidator)(nil)

func (v *StructuralValidator) Validate(payload *content.GamePayload, input GenerateInput) error {
	if !payload.Template.Valid() {
		return &ValidationError{Field: "template", Reason: fmt.Sprintf("unknown template %q", payload.Template)}
	}
	if input.ModuleType.Valid() && payload.Template != input.ModuleType {
		return &ValidationError{
			Field:  "template",
			Reason: fmt.Sprintf("got %s, requested %s", payload.Template, input.ModuleType),
		}
	}
	if payload.Prompt == "" {
		return &ValidationError{Field: "prompt", Reason: "empty"}
	}
	if len(payload.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "empty"}
	}

	correct := 0
	for i, it := range payload.Items {
		if it.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("items[%d].name", i), Reason: "empty"}
		}
		if it.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return &ValidationError{Field: "items", Reason: "no correct item"}
	}
	if payload.Template == content.TemplateChoice && correct != 1 {
		return &ValidationError{
			Field:  "items",
			Reason: fmt.Sprintf("CHOICE requires exactly one correct item, got %d", correct),
		}
	}

	return nil
}

package currgen

import "github.com/sprouthq/sprout/internal/llm"

// CurriculumSchema defines the JSON schema for LLM curriculum responses.
var CurriculumSchema = &llm.Schema{
	Name:        "curriculum",
	Description: "An ordered plan of learning modules for one session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"modules": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short child-facing module title",
						},
						"template": map[string]any{
							"type": "string",
							"enum": []any{
								"CHOICE", "DRAG_DROP", "TAP_TRACK", "SPEAKING", "CAMERA",
								"FEEDING", "TRACKING", "STORY", "WRITING", "FLASHCARD",
							},
							"description": "Game interaction style for the module's questions",
						},
						"kind": map[string]any{
							"type":        "string",
							"enum":        []any{"game", "offline_task", "verbal"},
							"description": "How the module is played",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "The learning goal, phrased for the content generator",
						},
						"interest": map[string]any{
							"type":        "string",
							"description": "The child interest this module is themed around",
						},
						"is_break": map[string]any{
							"type":        "boolean",
							"description": "True for a light non-educational filler activity",
						},
					},
					"required": []any{
						"title", "template", "kind", "description", "interest", "is_break",
					},
					"additionalProperties": false,
				},
				"description": "4 to 8 modules in play order, mixing templates and interests",
			},
		},
		"required":             []any{"modules"},
		"additionalProperties": false,
	},
}

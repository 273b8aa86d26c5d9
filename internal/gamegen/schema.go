package gamegen

import "github.com/sprouthq/sprout/internal/llm"

// PayloadSchema defines the JSON schema for LLM game-content responses.
var PayloadSchema = &llm.Schema{
	Name:        "game-payload",
	Description: "A single mini-game question with its assessment items",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{
				"type": "string",
				"enum": []any{
					"CHOICE", "DRAG_DROP", "TAP_TRACK", "SPEAKING", "CAMERA",
					"FEEDING", "TRACKING", "STORY", "WRITING", "FLASHCARD",
				},
				"description": "The game interaction style for this question",
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "The instruction read aloud to the child, one short sentence",
			},
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Short lowercase object name, e.g. 'red apple'",
						},
						"is_correct": map[string]any{
							"type":        "boolean",
							"description": "Whether tapping/choosing this item is a correct answer",
						},
						"image_hint": map[string]any{
							"type":        "string",
							"description": "A short visual description for the item's picture",
						},
					},
					"required":             []any{"name", "is_correct", "image_hint"},
					"additionalProperties": false,
				},
				"description": "3 to 6 items; at least one must be correct. STORY questions may use fewer.",
			},
		},
		"required":             []any{"template", "prompt", "items"},
		"additionalProperties": false,
	},
}

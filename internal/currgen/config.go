package currgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response. Curricula are
	// larger than single questions.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxHistoryRecords caps how many performance records go into the prompt.
	MaxHistoryRecords int

	// MinModules and MaxModules bound the accepted plan length.
	MinModules int
	MaxModules int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         2048,
		Temperature:       0.7,
		MaxHistoryRecords: 10,
		MinModules:        4,
		MaxModules:        8,
	}
}

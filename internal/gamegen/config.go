package gamegen

import "math/rand/v2"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated payload; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoidItems caps how many used item names go into the prompt.
	MaxAvoidItems int

	// Shuffle, when set, randomizes item presentation order. Tests inject
	// a seeded source; nil disables shuffling.
	Shuffle *rand.Rand
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:     768,
		Temperature:   0.8,
		MaxAvoidItems: 24,
		Shuffle:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

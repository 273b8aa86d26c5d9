package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprouthq/sprout/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show the resolved LLM provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if cfg.Validate() != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			}
		}

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		switch cfg.Provider {
		case "anthropic":
			fmt.Printf("Model:     %s\n", cfg.Anthropic.Model)
			fmt.Printf("API key:   %s\n", keyStatus(cfg.Anthropic.APIKey))
		case "openai":
			fmt.Printf("Model:     %s\n", cfg.OpenAI.Model)
			fmt.Printf("API key:   %s\n", keyStatus(cfg.OpenAI.APIKey))
			if cfg.OpenAI.BaseURL != "" {
				fmt.Printf("Base URL:  %s\n", cfg.OpenAI.BaseURL)
			}
		case "gemini":
			fmt.Printf("Model:     %s\n", cfg.Gemini.Model)
			fmt.Printf("API key:   %s\n", keyStatus(cfg.Gemini.APIKey))
		}
		fmt.Printf("Retries:   %d (initial wait %s)\n", cfg.Retry.MaxAttempts, cfg.Retry.InitialWait)

		if err := cfg.Validate(); err != nil {
			fmt.Printf("\nNot usable: %v\n", err)
		}
		return nil
	},
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return "set"
}

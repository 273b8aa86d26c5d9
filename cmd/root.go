package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sprouthq/sprout/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "AI learning companion for young children",
	Long:  "Sprout — procedurally generates interactive mini-games for kids and sequences them into learning sessions.",
}

func Execute() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPROUT_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SPROUT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

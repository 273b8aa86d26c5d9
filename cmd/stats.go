package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprouthq/sprout/internal/export"
	"github.com/sprouthq/sprout/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the session performance log",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		records, err := s.Performance().List(context.Background())
		if err != nil {
			return fmt.Errorf("list performance records: %w", err)
		}

		if path, _ := cmd.Flags().GetString("export"); path != "" {
			if err := export.WritePerformanceLog(records, path); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Printf("Exported %d records to %s\n", len(records), path)
			return nil
		}

		if len(records) == 0 {
			fmt.Println("No completed modules yet.")
			return nil
		}

		fmt.Printf("%-19s  %-28s  %7s  %8s  %8s  %-6s\n",
			"Date", "Module", "Correct", "Mistakes", "Duration", "Stress")
		fmt.Println(strings.Repeat("─", 86))
		for _, rec := range records {
			fmt.Printf("%-19s  %-28s  %7d  %8d  %7.0fs  %-6s\n",
				rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(rec.ModuleTitle, 28),
				rec.CorrectCount,
				rec.MistakeCount,
				rec.Duration.Seconds(),
				rec.Stress)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	statsCmd.Flags().String("export", "", "Write the log to an xlsx file instead of printing")
}

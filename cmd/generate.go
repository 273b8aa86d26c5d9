package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sprouthq/sprout/internal/app"
	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/task"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a session curriculum and prefetch its game content",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		a, err := app.New(ctx, app.Options{DBPath: dbPath})
		if err != nil {
			return err
		}
		defer a.Close()

		child, err := resolveChild(cmd, a)
		if err != nil {
			return err
		}
		a.Profiles.SetProfile(child)
		if err := a.Store.Profiles().Save(ctx, child); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}

		history, err := a.Store.Performance().List(ctx)
		if err != nil {
			return fmt.Errorf("load performance history: %w", err)
		}
		level, _ := cmd.Flags().GetString("level")

		fmt.Printf("Planning a session for %s (age %d)...\n", child.Name, child.Age)
		h := a.Scheduler.Enqueue(&task.CurriculumPayload{
			Profile:       &child,
			History:       history,
			AssessedLevel: level,
		}, task.PriorityCritical)
		if err := h.Wait(ctx); err != nil {
			return fmt.Errorf("curriculum generation: %w", err)
		}

		curriculum := a.Profiles.Curriculum()
		if curriculum == nil {
			return fmt.Errorf("no curriculum produced")
		}
		printCurriculum(curriculum)

		skipContent, _ := cmd.Flags().GetBool("no-content")
		if skipContent {
			return nil
		}

		fmt.Println("\nGenerating game content...")
		for _, m := range curriculum.Modules {
			h := a.Scheduler.Enqueue(&task.ModuleContentPayload{
				ModuleID:    m.ID,
				ModuleType:  m.Template,
				Description: m.Description,
				Interest:    m.Interest,
			}, task.PriorityHigh)
			if err := h.Wait(ctx); err != nil {
				fmt.Printf("  %-28s FAILED: %v\n", m.Title, err)
				continue
			}
			pack := a.Profiles.ModuleContent(m.ID)
			fmt.Printf("  %-28s %d questions\n", m.Title, pack.QuestionCount())
		}
		return nil
	},
}

// resolveChild builds the child profile from flags, falling back to the
// saved profile already loaded into shared state.
func resolveChild(cmd *cobra.Command, a *app.App) (content.ChildProfile, error) {
	child := a.Profiles.Profile()

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		child.Name = name
	}
	if age, _ := cmd.Flags().GetInt("age"); age > 0 {
		child.Age = age
	}
	if interests, _ := cmd.Flags().GetString("interests"); interests != "" {
		child.Interests = nil
		for _, s := range strings.Split(interests, ",") {
			if s = strings.TrimSpace(s); s != "" {
				child.Interests = append(child.Interests, s)
			}
		}
	}

	if child.Name == "" {
		return child, fmt.Errorf("no saved profile; provide --name and --age")
	}
	if child.Age <= 0 {
		return child, fmt.Errorf("profile for %s has no age; provide --age", child.Name)
	}
	if child.ID == "" {
		child.ID = uuid.NewString()
	}
	return child, nil
}

func printCurriculum(c *content.Curriculum) {
	fmt.Printf("\nSession plan (%d modules):\n", len(c.Modules))
	for i, m := range c.Modules {
		marker := ""
		if m.IsBreak {
			marker = "  [break]"
		}
		fmt.Printf("  %d. %-28s %-10s %s%s\n", i+1, m.Title, m.Template, m.Interest, marker)
	}
}

func init() {
	generateCmd.Flags().String("name", "", "Child's name")
	generateCmd.Flags().Int("age", 0, "Child's age")
	generateCmd.Flags().String("interests", "", "Comma-separated interests (e.g. dinosaurs,space)")
	generateCmd.Flags().String("level", "", "Assessed learning level")
	generateCmd.Flags().Bool("no-content", false, "Plan the curriculum only, skip game content generation")
}

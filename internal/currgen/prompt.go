package currgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a learning planner building one session's curriculum for a young child.

Rules:
- Plan 4 to 8 modules in play order, each with a single clear learning goal.
- Vary the game templates across the session; never use the same template twice in a row.
- Theme each module around one of the child's interests, rotating so no interest dominates.
- Use the performance history to pace difficulty: ease off after sessions with many mistakes, stretch gently after clean ones.
- Include at most one break module, marked is_break, placed after the most demanding stretch.
- Respect the dignity rules: goals and titles must suit the child's age band, never infantilize an older child.`

// buildUserMessage constructs the planning prompt from the Input and Config
// limits.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Child: %s, age %d\n", input.Profile.Name, input.Profile.Age)
	fmt.Fprintf(&b, "Interests: %s\n", interestList(input.Profile.Interests))
	if input.AssessedLevel != "" {
		fmt.Fprintf(&b, "Assessed level: %s\n", input.AssessedLevel)
	} else {
		b.WriteString("Assessed level: not yet assessed, start broad and easy\n")
	}

	b.WriteString("\nRecent performance (newest first):\n")
	b.WriteString(buildHistory(input, cfg.MaxHistoryRecords))

	return b.String()
}

func interestList(interests []string) string {
	if len(interests) == 0 {
		return "unknown, pick broadly appealing themes"
	}
	return strings.Join(interests, ", ")
}

// buildHistory formats the most recent performance records for the prompt.
// Returns "None" when the history is empty.
func buildHistory(input Input, max int) string {
	history := input.History
	if len(history) == 0 {
		return "None"
	}
	if max > 0 && len(history) > max {
		history = history[:max]
	}

	var b strings.Builder
	for _, rec := range history {
		fmt.Fprintf(&b, "- %s: %d correct, %d mistakes, stress %s\n",
			rec.ModuleTitle, rec.CorrectCount, rec.MistakeCount, rec.Stress)
	}
	return strings.TrimRight(b.String(), "\n")
}

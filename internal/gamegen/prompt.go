package gamegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a game designer creating one question of an educational mini-game for a young child.

Rules:
- Generate exactly one question matching the requested game template and learning goal.
- Theme the question around the child's interest whenever it fits the goal.
- Item names must be short, concrete, picturable objects in plain lowercase English.
- At least one item must be correct. For CHOICE, exactly one item is correct.
- Never reuse any object from the "already used" list. Pick fresh objects every time.
- Keep the spoken prompt to one short, warm sentence a child can follow without reading.
- Respect the dignity rules: content must suit the child's age band, never infantilize an older child.`

// buildUserMessage constructs the user message from GenerateInput and
// Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game template: %s\n", input.ModuleType)
	fmt.Fprintf(&b, "Learning goal: %s\n", input.Description)
	fmt.Fprintf(&b, "Child interest: %s\n", input.Interest)
	if input.GalleryRef != "" {
		fmt.Fprintf(&b, "Image gallery: %s\n", input.GalleryRef)
	}
	fmt.Fprintf(&b, "Child age: %d\n", input.Profile.Age)
	fmt.Fprintf(&b, "Dignity band: %s\n", dignityBand(input.Profile.Age))

	b.WriteString("\nAlready used in this module:\n")
	b.WriteString(buildAvoidList(input.AvoidList, cfg.MaxAvoidItems))

	return b.String()
}

// dignityBand maps an age to the content constraint band the generator
// must honor.
func dignityBand(age int) string {
	switch {
	case age <= 0:
		return "unknown: default to simple, neutral content"
	case age < 6:
		return "early: bright, playful, very simple vocabulary"
	case age < 9:
		return "middle: playful but not babyish, simple sentences"
	default:
		return "older: cool and respectful tone, no baby talk"
	}
}

// buildAvoidList formats used item names for the prompt, keeping only the
// most recent max entries. Returns "None" when the list is empty.
func buildAvoidList(avoid []string, max int) string {
	if len(avoid) == 0 {
		return "None"
	}

	if max > 0 && len(avoid) > max {
		avoid = avoid[len(avoid)-max:]
	}

	var b strings.Builder
	for i, name := range avoid {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return strings.TrimRight(b.String(), "\n")
}

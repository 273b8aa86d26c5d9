// Package currgen plans learning sessions: it turns a child profile and
// recent performance history into an ordered curriculum of modules.
package currgen

import (
	"context"

	"github.com/sprouthq/sprout/internal/content"
)

// Generator produces a session curriculum for a child.
type Generator interface {
	Generate(ctx context.Context, input Input) (*content.Curriculum, error)
}

// Input is the planning context for one curriculum.
type Input struct {
	// Profile is the learner the plan is for.
	Profile content.ChildProfile

	// History holds recent performance records, newest first. The planner
	// uses them to pace difficulty and rotate interests.
	History []content.PerformanceRecord

	// AssessedLevel optionally names the child's assessed learning level
	// (e.g. "pre-reader", "early numeracy"). Empty means unassessed.
	AssessedLevel string
}

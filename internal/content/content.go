// Package content defines the shared domain types for generated curriculum
// and mini-game content: game payloads, assessment items, curriculum modules,
// the child profile, and session performance records.
package content

import "time"

// GameTemplate identifies the interaction style of a generated mini-game.
type GameTemplate string

const (
	TemplateChoice    GameTemplate = "CHOICE"
	TemplateDragDrop  GameTemplate = "DRAG_DROP"
	TemplateTapTrack  GameTemplate = "TAP_TRACK"
	TemplateSpeaking  GameTemplate = "SPEAKING"
	TemplateCamera    GameTemplate = "CAMERA"
	TemplateFeeding   GameTemplate = "FEEDING"
	TemplateTracking  GameTemplate = "TRACKING"
	TemplateStory     GameTemplate = "STORY"
	TemplateWriting   GameTemplate = "WRITING"
	TemplateFlashcard GameTemplate = "FLASHCARD"
)

// KnownTemplates lists every template the generator may produce.
var KnownTemplates = []GameTemplate{
	TemplateChoice, TemplateDragDrop, TemplateTapTrack, TemplateSpeaking,
	TemplateCamera, TemplateFeeding, TemplateTracking, TemplateStory,
	TemplateWriting, TemplateFlashcard,
}

// Valid reports whether t is one of the known templates.
func (t GameTemplate) Valid() bool {
	for _, k := range KnownTemplates {
		if t == k {
			return true
		}
	}
	return false
}

// ModuleKind classifies how a curriculum module is played.
type ModuleKind string

const (
	// KindGame is an on-screen interactive module played over several questions.
	KindGame ModuleKind = "game"

	// KindOfflineTask is a real-world activity confirmed with a single answer.
	KindOfflineTask ModuleKind = "offline_task"

	// KindVerbal is a spoken-answer module, also single-answer.
	KindVerbal ModuleKind = "verbal"
)

// SingleQuestion reports whether modules of this kind complete after exactly
// one correct answer.
func (k ModuleKind) SingleQuestion() bool {
	return k == KindOfflineTask || k == KindVerbal
}

// BoundingBox locates an item inside its image, normalized to 0.0-1.0.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AssessmentItem is one selectable object inside a question.
type AssessmentItem struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IsCorrect bool         `json:"is_correct"`
	ImageRef  string       `json:"image_ref,omitempty"`
	Box       *BoundingBox `json:"box,omitempty"`
}

// GamePayload is the generated content for one question, or — when Questions
// is populated — a multi-question pack wrapping the ordered questions of a
// whole module. A pack is immutable once cached; regeneration produces a new
// pack rather than mutating in place.
type GamePayload struct {
	ID       string       `json:"id"`
	Template GameTemplate `json:"template"`

	// Prompt is the instruction read to the child, e.g. "Tap all the red fruits!".
	Prompt string `json:"prompt,omitempty"`

	Items []AssessmentItem `json:"items,omitempty"`

	// Questions holds the sibling payloads of a multi-question pack.
	// Empty for an individual question.
	Questions []GamePayload `json:"questions,omitempty"`
}

// Playable reports whether the payload carries usable content: either a
// question sequence or items of its own (a bare pack usable as one question).
func (p *GamePayload) Playable() bool {
	if p == nil {
		return false
	}
	return len(p.Questions) > 0 || len(p.Items) > 0
}

// QuestionCount returns the number of playable questions in the pack.
func (p *GamePayload) QuestionCount() int {
	if p == nil {
		return 0
	}
	if len(p.Questions) > 0 {
		return len(p.Questions)
	}
	if len(p.Items) > 0 {
		return 1
	}
	return 0
}

// Question returns the i-th question of the pack. A pack without a Questions
// sequence serves itself as question 0.
func (p *GamePayload) Question(i int) *GamePayload {
	if p == nil {
		return nil
	}
	if len(p.Questions) > 0 {
		if i < 0 || i >= len(p.Questions) {
			return nil
		}
		return &p.Questions[i]
	}
	if i == 0 && len(p.Items) > 0 {
		return p
	}
	return nil
}

// ItemNames returns the names of every item in the payload, including items
// of nested questions. Used to build the generation avoid list.
func (p *GamePayload) ItemNames() []string {
	if p == nil {
		return nil
	}
	var names []string
	for _, it := range p.Items {
		if it.Name != "" {
			names = append(names, it.Name)
		}
	}
	for i := range p.Questions {
		names = append(names, p.Questions[i].ItemNames()...)
	}
	return names
}

// Module is one unit of curriculum: a themed activity the child plays as a
// sequence of generated questions.
type Module struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Template    GameTemplate `json:"template"`
	Kind        ModuleKind   `json:"kind"`
	Description string       `json:"description"`

	// Interest is the child interest this module is themed around
	// (e.g. "dinosaurs", "space").
	Interest string `json:"interest"`

	// IsBreak marks a non-educational filler activity offered when the child
	// shows frustration. Break modules are excluded from performance logging.
	IsBreak bool `json:"is_break"`
}

// Curriculum is an ordered plan of modules for a learning session.
type Curriculum struct {
	ID          string    `json:"id"`
	Modules     []Module  `json:"modules"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ChildProfile describes the learner. It is the payload context for
// curriculum generation and the source of dignity-rule age banding.
type ChildProfile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Interests []string `json:"interests"`
}

// Buddy is the child's companion character. Speech output is voiced as the
// buddy; the core only passes it through to the speech collaborator.
type Buddy struct {
	Name  string `json:"name"`
	Voice string `json:"voice"`
}

// StressLevel is the derived frustration signal of a completed module.
type StressLevel string

const (
	StressLow    StressLevel = "LOW"
	StressMedium StressLevel = "MEDIUM"
	StressHigh   StressLevel = "HIGH"
)

// PerformanceRecord is the immutable log entry emitted once per completed
// module. Ephemeral per-attempt counters live in the session controller;
// this is what survives.
type PerformanceRecord struct {
	ID           string        `json:"id"`
	ModuleID     string        `json:"module_id"`
	ModuleTitle  string        `json:"module_title"`
	Timestamp    time.Time     `json:"timestamp"`
	Duration     time.Duration `json:"duration"`
	CorrectCount int           `json:"correct_count"`
	MistakeCount int           `json:"mistake_count"`
	Stress       StressLevel   `json:"stress"`
}

// Stage identifies a top-level app surface the core can request navigation to.
// Rendering of stages is owned by the UI layer, not this core.
type Stage string

const (
	StageHome       Stage = "home"
	StageCurriculum Stage = "curriculum"
	StagePlay       Stage = "play"
	StageBreak      Stage = "break"
)

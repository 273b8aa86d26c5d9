package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sprouthq/sprout/internal/content"
)

// Type discriminates what kind of work a task carries.
type Type string

const (
	TypeCurriculumGeneration    Type = "curriculum_generation"
	TypeModuleContentGeneration Type = "module_content_generation"
)

// Priority orders pending tasks. Higher values drain first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Payload is the tagged union of task payloads. Each task type has one
// concrete payload with statically known fields.
type Payload interface {
	// TaskType names the task variant this payload belongs to.
	TaskType() Type

	// DedupKey derives the structural identity of the payload. Two pending
	// tasks with equal type and key are the same task.
	DedupKey() string
}

// CurriculumPayload requests generation of a session curriculum.
type CurriculumPayload struct {
	// Profile is the learner to plan for. Required.
	Profile *content.ChildProfile

	// History holds recent performance records, newest first.
	History []content.PerformanceRecord

	// AssessedLevel optionally names the child's assessed learning level.
	AssessedLevel string
}

func (p *CurriculumPayload) TaskType() Type { return TypeCurriculumGeneration }

func (p *CurriculumPayload) DedupKey() string {
	profileID := ""
	if p.Profile != nil {
		profileID = p.Profile.ID
	}
	return fmt.Sprintf("profile=%s level=%s", profileID, p.AssessedLevel)
}

// ModuleContentPayload requests generation of one module's question pack.
type ModuleContentPayload struct {
	// ModuleID keys the content cache entry. Required.
	ModuleID string

	// ModuleType is the game template for the module's questions. Required.
	ModuleType content.GameTemplate

	// Description is the curriculum's learning goal. Required.
	Description string

	// Interest themes the questions.
	Interest string

	// GalleryRef optionally points at an image gallery.
	GalleryRef string
}

func (p *ModuleContentPayload) TaskType() Type { return TypeModuleContentGeneration }

func (p *ModuleContentPayload) DedupKey() string {
	return fmt.Sprintf("module=%s type=%s desc=%s", p.ModuleID, p.ModuleType, p.Description)
}

// Task is one unit of deferred generation work.
type Task struct {
	ID       string
	Type     Type
	Payload  Payload
	Priority Priority

	// Attempts counts executions so far, including the one in flight.
	Attempts int

	EnqueuedAt time.Time

	handle *Handle
}

func newTask(payload Payload, priority Priority) *Task {
	return &Task{
		ID:         uuid.NewString(),
		Type:       payload.TaskType(),
		Payload:    payload,
		Priority:   priority,
		EnqueuedAt: time.Now(),
		handle:     newHandle(),
	}
}

// dedupKey is the queue-wide identity of the task.
func (t *Task) dedupKey() string {
	return string(t.Type) + "|" + t.Payload.DedupKey()
}

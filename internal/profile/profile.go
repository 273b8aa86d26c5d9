// Package profile holds the in-memory shared state that the generation
// executors write and the game pack loader and session controller read:
// the child profile, the active curriculum, per-module generated content,
// completion marks and reward tokens.
//
// State used to be reached through ambient globals in the original design;
// here every consumer receives an explicit *Store.
package profile

import (
	"context"
	"sync"

	"github.com/sprouthq/sprout/internal/content"
)

// UpdateKind describes what changed in a published update.
type UpdateKind string

const (
	UpdateCurriculum    UpdateKind = "curriculum"
	UpdateModuleContent UpdateKind = "module_content"
	UpdateCompletion    UpdateKind = "completion"
)

// Update is the event published to subscribers when shared state changes.
type Update struct {
	Kind     UpdateKind
	ModuleID string // set for module_content and completion updates
}

// PerformanceAppender persists completed-module records. The store package
// provides the SQLite-backed implementation.
type PerformanceAppender interface {
	Append(ctx context.Context, rec content.PerformanceRecord) error
}

// Store is the shared mutable profile state. All methods are safe for
// concurrent use.
type Store struct {
	mu            sync.RWMutex
	profile       content.ChildProfile
	buddy         content.Buddy
	activeModule  *content.Module
	curriculum    *content.Curriculum
	moduleContent map[string]*content.GamePayload
	completed     map[string]bool
	tokens        int
	perfLog       []content.PerformanceRecord

	perf PerformanceAppender // optional durable sink

	subMu   sync.Mutex
	subs    map[int]chan Update
	nextSub int
}

// NewStore creates an empty profile store. perf may be nil; records are then
// kept in memory only.
func NewStore(perf PerformanceAppender) *Store {
	return &Store{
		moduleContent: make(map[string]*content.GamePayload),
		completed:     make(map[string]bool),
		subs:          make(map[int]chan Update),
		perf:          perf,
	}
}

// SetProfile replaces the child profile.
func (s *Store) SetProfile(p content.ChildProfile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

// Profile returns the child profile.
func (s *Store) Profile() content.ChildProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetBuddy replaces the buddy character.
func (s *Store) SetBuddy(b content.Buddy) {
	s.mu.Lock()
	s.buddy = b
	s.mu.Unlock()
}

// Buddy returns the buddy character.
func (s *Store) Buddy() content.Buddy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buddy
}

// SetActiveModule records which module the child is currently playing.
func (s *Store) SetActiveModule(m *content.Module) {
	s.mu.Lock()
	s.activeModule = m
	s.mu.Unlock()
}

// ActiveModule returns the module currently being played, or nil.
func (s *Store) ActiveModule() *content.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeModule
}

// SetCurriculum replaces the active curriculum and publishes an update.
func (s *Store) SetCurriculum(c *content.Curriculum) {
	s.mu.Lock()
	s.curriculum = c
	s.mu.Unlock()
	s.publish(Update{Kind: UpdateCurriculum})
}

// Curriculum returns the active curriculum, or nil if none was generated yet.
func (s *Store) Curriculum() *content.Curriculum {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.curriculum
}

// CacheModuleContent mirrors a generated pack into shared state and
// publishes an update. The durable cache write happens before this call,
// so an observer always finds the pack persisted.
func (s *Store) CacheModuleContent(moduleID string, pack *content.GamePayload) {
	s.mu.Lock()
	s.moduleContent[moduleID] = pack
	s.mu.Unlock()
	s.publish(Update{Kind: UpdateModuleContent, ModuleID: moduleID})
}

// ModuleContent returns the in-memory pack for a module, or nil.
func (s *Store) ModuleContent(moduleID string) *content.GamePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moduleContent[moduleID]
}

// MarkModuleComplete flags a module as finished and publishes an update.
func (s *Store) MarkModuleComplete(moduleID string) {
	s.mu.Lock()
	s.completed[moduleID] = true
	s.mu.Unlock()
	s.publish(Update{Kind: UpdateCompletion, ModuleID: moduleID})
}

// IsModuleComplete reports whether the module was finished.
func (s *Store) IsModuleComplete(moduleID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed[moduleID]
}

// AddToken awards one reward token.
func (s *Store) AddToken() {
	s.mu.Lock()
	s.tokens++
	s.mu.Unlock()
}

// Tokens returns the reward token balance.
func (s *Store) Tokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// LogSessionPerformance appends a completed-module record, both in memory
// and — when a durable sink is configured — to the performance log.
func (s *Store) LogSessionPerformance(ctx context.Context, rec content.PerformanceRecord) error {
	s.mu.Lock()
	s.perfLog = append(s.perfLog, rec)
	s.mu.Unlock()

	if s.perf == nil {
		return nil
	}
	return s.perf.Append(ctx, rec)
}

// SessionPerformance returns the records logged during this process run.
func (s *Store) SessionPerformance() []content.PerformanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]content.PerformanceRecord, len(s.perfLog))
	copy(out, s.perfLog)
	return out
}

// Subscribe registers for state updates. The returned cancel func must be
// called when done. Updates are delivered best-effort: a subscriber that
// is not draining its channel misses events rather than blocking writers.
func (s *Store) Subscribe() (<-chan Update, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, 16)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Store) publish(u Update) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

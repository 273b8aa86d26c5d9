package session

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/profile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingBuddy captures companion notifications.
type recordingBuddy struct {
	mu       sync.Mutex
	corrects []int
	wrongs   []int
	spoken   []string
}

func (b *recordingBuddy) CorrectAnswer(score int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.corrects = append(b.corrects, score)
}

func (b *recordingBuddy) WrongAnswer(consecutive int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wrongs = append(b.wrongs, consecutive)
}

func (b *recordingBuddy) Speak(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.spoken = append(b.spoken, text)
}

func (b *recordingBuddy) correctCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.corrects)
}

// recordingNav captures stage transitions.
type recordingNav struct {
	mu     sync.Mutex
	stages []content.Stage
}

func (n *recordingNav) SetStage(stage content.Stage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stages = append(n.stages, stage)
}

func (n *recordingNav) last() content.Stage {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stages) == 0 {
		return ""
	}
	return n.stages[len(n.stages)-1]
}

func testPack(questions int, template content.GameTemplate) *content.GamePayload {
	pack := &content.GamePayload{ID: "pack-1", Template: content.TemplateChoice}
	for i := 0; i < questions; i++ {
		pack.Questions = append(pack.Questions, content.GamePayload{
			ID:       fmt.Sprintf("q%d", i+1),
			Template: template,
			Items:    []content.AssessmentItem{{ID: "a", Name: "apple", IsCorrect: true}},
		})
	}
	return pack
}

func gameModule() *content.Module {
	return &content.Module{ID: "m1", Title: "Count the Dinos", Template: content.TemplateChoice, Kind: content.KindGame}
}

// fixture wires a controller with zero delays so every follow-up runs
// synchronously.
type fixture struct {
	ctrl       *Controller
	profiles   *profile.Store
	buddy      *recordingBuddy
	nav        *recordingNav
	breakCalls int
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		profiles: profile.NewStore(nil),
		buddy:    &recordingBuddy{},
		nav:      &recordingNav{},
	}
	f.ctrl = NewController(cfg, f.profiles, f.buddy, f.nav, func() { f.breakCalls++ }, testLogger())
	return f
}

func zeroDelays() Config {
	return Config{TargetQuestions: 5, MaxMistakesForBreak: 3}
}

func TestProcessingGuardPreventsDoubleCounting(t *testing.T) {
	f := newFixture(zeroDelays())
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateChoice))

	f.ctrl.HandleLevelComplete(true)
	f.ctrl.HandleLevelComplete(true) // duplicate UI event, no reset between

	stats := f.ctrl.Stats()
	if stats.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", stats.CorrectCount)
	}
	if f.profiles.Tokens() != 1 {
		t.Errorf("tokens = %d, want exactly 1 award", f.profiles.Tokens())
	}
	if f.buddy.correctCalls() != 1 {
		t.Errorf("buddy notifications = %d, want 1", f.buddy.correctCalls())
	}

	// After the explicit reset the next outcome counts again.
	f.ctrl.ResetProcessingFlag()
	f.ctrl.HandleLevelComplete(true)
	if got := f.ctrl.Stats().CorrectCount; got != 2 {
		t.Errorf("CorrectCount after reset = %d, want 2", got)
	}
}

func TestModuleCompletesAtTargetQuestions(t *testing.T) {
	f := newFixture(zeroDelays())
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateChoice))

	for i := 0; i < 5; i++ {
		f.ctrl.HandleLevelComplete(true)
		f.ctrl.ResetProcessingFlag()
	}

	if !f.profiles.IsModuleComplete("m1") {
		t.Error("module should be marked complete after the 5th correct answer")
	}
	records := f.profiles.SessionPerformance()
	if len(records) != 1 {
		t.Fatalf("performance records = %d, want exactly 1", len(records))
	}
	rec := records[0]
	if rec.ModuleID != "m1" || rec.CorrectCount != 5 || rec.MistakeCount != 0 {
		t.Errorf("record = %+v, want m1 with 5 correct, 0 mistakes", rec)
	}
	if rec.Stress != content.StressLow {
		t.Errorf("stress = %s, want LOW for a clean run", rec.Stress)
	}
	if f.nav.last() != content.StageCurriculum {
		t.Errorf("stage = %s, want curriculum after completion", f.nav.last())
	}

	// Further answers on a completed module are ignored.
	f.ctrl.ResetProcessingFlag()
	f.ctrl.HandleLevelComplete(true)
	if got := len(f.profiles.SessionPerformance()); got != 1 {
		t.Errorf("records after extra answer = %d, want 1", got)
	}
}

func TestStoryCompletesImmediately(t *testing.T) {
	f := newFixture(zeroDelays())
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateStory))

	f.ctrl.HandleLevelComplete(true)

	if !f.profiles.IsModuleComplete("m1") {
		t.Error("a story question should complete the module on its first answer")
	}
	if got := len(f.profiles.SessionPerformance()); got != 1 {
		t.Errorf("performance records = %d, want 1", got)
	}
	if got := f.ctrl.Stats().QuestionsAnswered; got != 1 {
		t.Errorf("QuestionsAnswered = %d, want 1", got)
	}
}

func TestSingleQuestionKindsCompleteAfterOneCorrect(t *testing.T) {
	for _, kind := range []content.ModuleKind{content.KindOfflineTask, content.KindVerbal} {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture(zeroDelays())
			module := gameModule()
			module.Kind = kind
			f.ctrl.StartModule(module, testPack(5, content.TemplateChoice))

			f.ctrl.HandleLevelComplete(true)

			if !f.profiles.IsModuleComplete("m1") {
				t.Errorf("%s module should complete after one correct answer", kind)
			}
		})
	}
}

func TestBreakOfferFiresAtThreshold(t *testing.T) {
	cfg := zeroDelays()
	cfg.MaxMistakesForBreak = 2
	f := newFixture(cfg)
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateChoice))

	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	if f.breakCalls != 0 {
		t.Errorf("break offers after 1st mistake = %d, want 0", f.breakCalls)
	}

	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	if f.breakCalls != 1 {
		t.Errorf("break offers after 2nd mistake = %d, want 1", f.breakCalls)
	}

	// Once at the threshold, every further mistake re-offers.
	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	if f.breakCalls != 2 {
		t.Errorf("break offers after 3rd mistake = %d, want 2", f.breakCalls)
	}
}

func TestConsecutiveErrorsResetOnCorrect(t *testing.T) {
	f := newFixture(zeroDelays())
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateChoice))

	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()

	if got := f.ctrl.Stats().ConsecutiveErrors; got != 2 {
		t.Fatalf("ConsecutiveErrors = %d, want 2", got)
	}
	if got := f.buddy.wrongs; len(got) != 2 || got[1] != 2 {
		t.Errorf("wrong-answer notifications = %v, want consecutive counts [1 2]", got)
	}

	f.ctrl.HandleLevelComplete(true)
	f.ctrl.ResetProcessingFlag()

	stats := f.ctrl.Stats()
	if stats.ConsecutiveErrors != 0 {
		t.Errorf("ConsecutiveErrors = %d, want 0 after a correct answer", stats.ConsecutiveErrors)
	}
	if stats.QuestionsAnswered != 1 || stats.MistakeCount != 2 {
		t.Errorf("stats = %+v, want answered=1 mistakes=2", stats)
	}
}

func TestBreakActivitySkipsCompletionAndLogging(t *testing.T) {
	f := newFixture(zeroDelays())
	module := gameModule()
	module.IsBreak = true
	f.ctrl.StartModule(module, testPack(1, content.TemplateTapTrack))

	f.ctrl.HandleLevelComplete(true)

	if f.profiles.IsModuleComplete("m1") {
		t.Error("break activities must not be marked complete")
	}
	if got := len(f.profiles.SessionPerformance()); got != 0 {
		t.Errorf("performance records = %d, want 0 for a break activity", got)
	}
	if f.nav.last() != content.StageHome {
		t.Errorf("stage = %s, want home after a break activity", f.nav.last())
	}
}

func TestCompletionWithMistakesDerivesStress(t *testing.T) {
	cfg := zeroDelays()
	cfg.MaxMistakesForBreak = 2
	f := newFixture(cfg)
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateChoice))

	// One mistake, then five corrects: MEDIUM would need mistakes < threshold,
	// so keep it at one.
	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	for i := 0; i < 5; i++ {
		f.ctrl.HandleLevelComplete(true)
		f.ctrl.ResetProcessingFlag()
	}

	records := f.profiles.SessionPerformance()
	if len(records) != 1 {
		t.Fatalf("performance records = %d, want 1", len(records))
	}
	if records[0].Stress != content.StressMedium {
		t.Errorf("stress = %s, want MEDIUM with one mistake", records[0].Stress)
	}
}

func TestCompletionAtBreakThresholdOffersBreakInsteadOfNavigation(t *testing.T) {
	cfg := zeroDelays()
	cfg.MaxMistakesForBreak = 2
	f := newFixture(cfg)
	module := gameModule()
	module.Kind = content.KindVerbal // completes after one correct
	f.ctrl.StartModule(module, testPack(1, content.TemplateChoice))

	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	f.ctrl.HandleLevelComplete(false)
	f.ctrl.ResetProcessingFlag()
	offersBefore := f.breakCalls

	f.ctrl.HandleLevelComplete(true)

	records := f.profiles.SessionPerformance()
	if len(records) != 1 {
		t.Fatalf("performance records = %d, want 1", len(records))
	}
	if records[0].Stress != content.StressHigh {
		t.Errorf("stress = %s, want HIGH at the break threshold", records[0].Stress)
	}
	if f.breakCalls != offersBefore+1 {
		t.Errorf("break offers = %d, want one more than %d on completion", f.breakCalls, offersBefore)
	}
	if f.nav.last() == content.StageCurriculum {
		t.Error("stressed completion should offer a break, not navigate on")
	}
}

func TestAdvanceMovesToNextQuestion(t *testing.T) {
	f := newFixture(zeroDelays())
	f.ctrl.StartModule(gameModule(), testPack(5, content.TemplateChoice))

	if q := f.ctrl.CurrentQuestion(); q == nil || q.ID != "q1" {
		t.Fatalf("current question = %+v, want q1", q)
	}

	f.ctrl.HandleLevelComplete(true)
	f.ctrl.ResetProcessingFlag()

	if q := f.ctrl.CurrentQuestion(); q == nil || q.ID != "q2" {
		t.Errorf("current question = %+v, want q2 after a correct answer", q)
	}
	if len(f.buddy.spoken) == 0 {
		t.Error("buddy should speak encouragement after advancing")
	}
}

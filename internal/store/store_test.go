package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sprout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGameRepo_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	games := s.Games()
	ctx := context.Background()

	has, err := games.HasGame(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, has, "empty cache should not report a game")

	pack, err := games.GetGame(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, pack)

	in := &content.GamePayload{
		ID:       "pack-1",
		Template: content.TemplateChoice,
		Questions: []content.GamePayload{
			{
				ID:       "q1",
				Template: content.TemplateDragDrop,
				Items:    []content.AssessmentItem{{ID: "i1", Name: "apple", IsCorrect: true}},
			},
		},
	}
	require.NoError(t, games.SetGame(ctx, "m1", in))

	has, err = games.HasGame(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, has)

	out, err := games.GetGame(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "pack-1", out.ID)
	require.Len(t, out.Questions, 1)
	assert.Equal(t, content.TemplateDragDrop, out.Questions[0].Template)
	assert.Equal(t, "apple", out.Questions[0].Items[0].Name)
}

func TestGameRepo_SetGameReplaces(t *testing.T) {
	s := openTestStore(t)
	games := s.Games()
	ctx := context.Background()

	require.NoError(t, games.SetGame(ctx, "m1", &content.GamePayload{ID: "old"}))
	require.NoError(t, games.SetGame(ctx, "m1", &content.GamePayload{ID: "new"}))

	out, err := games.GetGame(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "new", out.ID)
}

func TestGameRepo_CorruptPayloadTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx,
		"INSERT INTO games (module_id, payload) VALUES (?, ?)", "bad", "{not json")
	require.NoError(t, err)

	out, err := s.Games().GetGame(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, out, "corrupt payload should read as absent")

	has, err := s.Games().HasGame(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, has, "corrupt entry should be dropped so a sweep regenerates it")
}

func TestGameRepo_DeleteGame(t *testing.T) {
	s := openTestStore(t)
	games := s.Games()
	ctx := context.Background()

	require.NoError(t, games.SetGame(ctx, "m1", &content.GamePayload{ID: "p"}))
	require.NoError(t, games.DeleteGame(ctx, "m1"))

	has, err := games.HasGame(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, games.DeleteGame(ctx, "m1"), "deleting an absent entry is not an error")
}

func TestPerformanceRepo_AppendAndList(t *testing.T) {
	s := openTestStore(t)
	perf := s.Performance()
	ctx := context.Background()

	first := content.PerformanceRecord{
		ID:           "r1",
		ModuleID:     "m1",
		ModuleTitle:  "Counting Safari",
		Timestamp:    time.Now().Add(-time.Hour),
		Duration:     90 * time.Second,
		CorrectCount: 5,
		MistakeCount: 1,
		Stress:       content.StressMedium,
	}
	second := content.PerformanceRecord{
		ID:          "r2",
		ModuleID:    "m2",
		ModuleTitle: "Shape Parade",
		Timestamp:   time.Now(),
		Duration:    2 * time.Minute,
		Stress:      content.StressLow,
	}
	require.NoError(t, perf.Append(ctx, first))
	require.NoError(t, perf.Append(ctx, second))

	recs, err := perf.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r2", recs[0].ID, "newest record first")
	assert.Equal(t, "r1", recs[1].ID)
	assert.Equal(t, 90*time.Second, recs[1].Duration)
	assert.Equal(t, content.StressMedium, recs[1].Stress)
}

func TestLLMRequestRepo_Append(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.LLMRequests().AppendLLMRequest(ctx, llm.RequestRecord{
		Provider:     "mock",
		Model:        "mock",
		Purpose:      "game-content",
		InputTokens:  10,
		OutputTokens: 20,
		LatencyMs:    5,
		Success:      true,
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, s.DB().GetContext(ctx, &n, "SELECT COUNT(1) FROM llm_requests"))
	assert.Equal(t, 1, n)
}

func TestProfileRepo_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	profiles := s.Profiles()
	ctx := context.Background()

	missing, err := profiles.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	in := content.ChildProfile{
		ID:        "c1",
		Name:      "Mira",
		Age:       6,
		Interests: []string{"dinosaurs", "space"},
	}
	require.NoError(t, profiles.Save(ctx, in))

	out, err := profiles.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestCurriculumRepo_LatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	curricula := s.Curricula()
	ctx := context.Background()

	missing, err := curricula.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	older := &content.Curriculum{
		ID:          "cur-old",
		Modules:     []content.Module{{ID: "m1", Title: "Counting Safari"}},
		GeneratedAt: time.Now().Add(-time.Hour),
	}
	newer := &content.Curriculum{
		ID:          "cur-new",
		Modules:     []content.Module{{ID: "m2", Title: "Shape Parade"}},
		GeneratedAt: time.Now(),
	}
	require.NoError(t, curricula.Save(ctx, older))
	require.NoError(t, curricula.Save(ctx, newer))

	out, err := curricula.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "cur-new", out.ID)
	require.Len(t, out.Modules, 1)
	assert.Equal(t, "Shape Parade", out.Modules[0].Title)
}

func TestReset_ClearsAllTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Games().SetGame(ctx, "m1", &content.GamePayload{ID: "p"}))
	require.NoError(t, s.Reset())

	has, err := s.Games().HasGame(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, has)
}

package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmuse/internal/database"
	"mealmuse/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(context.Background(), filepath.Join(t.TempDir(), "metrics.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStore_DailyUsage(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Record(ExecutionMetric{FlowName: "GenerateMealPlan", PromptTokens: 100, CompletionTokens: 50, Timestamp: now.Add(-time.Hour)}))
	require.NoError(t, s.Record(ExecutionMetric{FlowName: "GetRecipe", PromptTokens: 10, CompletionTokens: 5, Timestamp: now.Add(-2 * time.Hour)}))
	require.NoError(t, s.Record(ExecutionMetric{FlowName: "GetRecipe", PromptTokens: 7, CompletionTokens: 3, Timestamp: now.AddDate(0, 0, -1)}))
	require.NoError(t, s.Record(ExecutionMetric{FlowName: "GetRecipe", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -30)}))

	usage, err := s.GetDailyUsage(7)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, DailyUsage{Date: "2026-10-15", TotalPrompt: 110, TotalCompletion: 55, TotalExecution: 2}, usage[0])
	assert.Equal(t, DailyUsage{Date: "2026-10-14", TotalPrompt: 7, TotalCompletion: 3, TotalExecution: 1}, usage[1])
}

func TestStore_RecordMetaSkipsEmptyUsage(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordMeta(shared.FlowMeta{FlowName: "GetRecipe"}))
	require.NoError(t, s.RecordMeta(shared.FlowMeta{
		FlowName: "GetRecipe",
		Usage:    shared.TokenUsage{PromptTokens: 12, CompletionTokens: 8, Model: "gemini-2.0-flash"},
		Latency:  1500 * time.Millisecond,
	}))

	usage, err := s.GetDailyUsage(1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].TotalExecution)
	assert.Equal(t, 12, usage[0].TotalPrompt)
}

func TestStore_Cleanup(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Record(ExecutionMetric{FlowName: "old", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -40)}))
	require.NoError(t, s.Record(ExecutionMetric{FlowName: "older", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -60)}))
	require.NoError(t, s.Record(ExecutionMetric{FlowName: "recent", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -2)}))

	deleted, err := s.Cleanup(30)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	usage, err := s.GetDailyUsage(90)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "2026-10-13", usage[0].Date)
}

func TestGetSysHealth(t *testing.T) {
	h := GetSysHealth(time.Now().Add(-time.Minute), "")
	assert.Equal(t, "ok", h.Status)
	assert.Positive(t, h.Goroutines)
	assert.Empty(t, h.DatabaseSize)
	assert.Equal(t, "1.5 KB", formatBytes(1536))
}

package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fokus/internal/models"
	"fokus/internal/state"
)

func testState() models.AppState {
	st := models.NewAppState()
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	st.Sessions = []models.Session{{
		ID:              "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		StartTime:       start,
		EndTime:         start.Add(25 * time.Minute),
		Duration:        1500,
		PlannedDuration: 1500,
		Kind:            models.KindFocus,
		SessionType:     models.SessionTypeDeepWork,
		CategoryID:      "coding",
		Completed:       true,
	}}
	st.Goals = models.Goals{Daily: 300, Weekly: 1500}
	active := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	st.Streak = models.Streak{Current: 3, Longest: 7, LastActiveDate: &active}
	return st
}

func TestFromState(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	snap := FromState(testState(), now)

	assert.Len(t, snap.Sessions, 1)
	assert.Equal(t, 300, snap.Goals.Daily)
	assert.Equal(t, 3, snap.Streak.Current)
	assert.Equal(t, now, snap.ExportedAt)
}

func TestJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	snap := FromState(testState(), now)

	var buf bytes.Buffer
	require.NoError(t, snap.WriteJSON(&buf))

	// ISO-8601 timestamp in the output
	assert.Contains(t, buf.String(), `"exportedAt": "2026-03-14T15:00:00Z"`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap.Goals, got.Goals)
	assert.Equal(t, snap.Settings, got.Settings)
	assert.Equal(t, snap.Streak.Current, got.Streak.Current)
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, snap.Sessions[0].ID, got.Sessions[0].ID)
	assert.True(t, snap.ExportedAt.Equal(got.ExportedAt))
}

func TestWriteYAML(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	snap := FromState(testState(), now)

	var buf bytes.Buffer
	require.NoError(t, snap.WriteYAML(&buf))

	out := buf.String()
	assert.True(t, strings.Contains(out, "sessions:"))
	assert.True(t, strings.Contains(out, "goals:"))
	assert.True(t, strings.Contains(out, "coding"))
}

func TestReadJSON_Invalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestPatch_RestoresState(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	snap := FromState(testState(), now)

	st := state.New()
	st.Apply(snap.Patch())

	got := st.State()
	assert.Equal(t, snap.Goals, got.Goals)
	assert.Equal(t, snap.Settings, got.Settings)
	assert.Equal(t, 3, got.Streak.Current)
	assert.Equal(t, 7, got.Streak.Longest)
	require.NotNil(t, got.Streak.LastActiveDate)
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", got.Sessions[0].ID)
}

func TestPatch_EmptySnapshotClearsSessions(t *testing.T) {
	st := state.New()
	st.AppendSession(models.Session{ID: "old"})

	var snap Snapshot
	snap.Settings = models.DefaultSettings()
	snap.Goals = models.DefaultGoals()
	st.Apply(snap.Patch())

	assert.Empty(t, st.State().Sessions)
}

package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fokus/internal/models"
	"fokus/internal/state"
)

type fakeSink struct {
	saved chan models.Session
	err   error
}

func newFakeSink() *fakeSink {
	return &fakeSink{saved: make(chan models.Session, 4)}
}

func (f *fakeSink) SaveSession(_ context.Context, s *models.Session) error {
	f.saved <- *s
	return f.err
}

func (f *fakeSink) waitForSave(t *testing.T) models.Session {
	t.Helper()
	select {
	case s := <-f.saved:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session save")
		return models.Session{}
	}
}

func newTestMachine(t *testing.T) (*Machine, *state.Store, *fakeSink) {
	t.Helper()
	st := state.New()
	sink := newFakeSink()
	m := New(st, sink, nil)
	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	t.Cleanup(m.Close)
	return m, st, sink
}

// run puts the timer into a running state with the given elapsed seconds,
// without scheduling a real tick loop.
func run(st *state.Store, elapsed int) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	duration := st.State().Timer.Duration
	st.Apply(state.Patch{Timer: &state.TimerPatch{
		IsRunning:    state.Ptr(true),
		Remaining:    state.Ptr(duration - elapsed),
		SetStartTime: true,
		StartTime:    &start,
	}})
}

func TestStart_SetsRunningAndStartTime(t *testing.T) {
	m, st, _ := newTestMachine(t)

	m.Start()
	timer := st.State().Timer
	assert.True(t, timer.IsRunning)
	assert.False(t, timer.IsPaused)
	require.NotNil(t, timer.StartTime)

	m.Close()
}

func TestStart_ResumePreservesStartTime(t *testing.T) {
	m, st, _ := newTestMachine(t)

	m.Start()
	first := *st.State().Timer.StartTime
	m.Pause()

	m.now = func() time.Time { return first.Add(time.Hour) }
	m.Start()
	m.Close()

	assert.Equal(t, first, *st.State().Timer.StartTime)
}

func TestTick_Decrements(t *testing.T) {
	m, st, _ := newTestMachine(t)
	run(st, 0)

	before := st.State().Timer.Remaining
	m.Tick()
	m.Tick()
	assert.Equal(t, before-2, st.State().Timer.Remaining)
}

func TestTick_IgnoredWhenNotRunning(t *testing.T) {
	m, st, _ := newTestMachine(t)

	before := st.State().Timer.Remaining
	m.Tick()
	assert.Equal(t, before, st.State().Timer.Remaining)
}

func TestTick_AutoFinishAtZero(t *testing.T) {
	m, st, sink := newTestMachine(t)
	run(st, st.State().Timer.Duration-1)

	m.Tick()

	appstate := st.State()
	require.Len(t, appstate.Sessions, 1)
	sess := appstate.Sessions[0]
	assert.True(t, sess.Completed)
	assert.Equal(t, 25*60, sess.Duration)
	assert.Equal(t, models.KindFocus, sess.Kind)

	saved := sink.waitForSave(t)
	assert.Equal(t, sess.Duration, saved.Duration)

	// Timer back to idle at the default duration
	timer := appstate.Timer
	assert.False(t, timer.IsRunning)
	assert.False(t, timer.IsPaused)
	assert.Nil(t, timer.StartTime)
	assert.Equal(t, 25*60, timer.Remaining)
}

func TestFinish_RecordsPartialSession(t *testing.T) {
	m, st, sink := newTestMachine(t)
	m.SetCategory("coding")
	m.SetNote("api work")
	run(st, 600)

	m.Finish()

	appstate := st.State()
	require.Len(t, appstate.Sessions, 1)
	sess := appstate.Sessions[0]
	assert.Equal(t, 600, sess.Duration)
	assert.Equal(t, 25*60, sess.PlannedDuration)
	assert.False(t, sess.Completed, "finishing early is not a completed session")
	assert.Equal(t, "coding", sess.CategoryID)
	assert.Equal(t, "api work", sess.Note)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), sess.StartTime)

	sink.waitForSave(t)
}

func TestFinish_ShortRunDiscarded(t *testing.T) {
	m, st, _ := newTestMachine(t)
	run(st, 30)

	m.Finish()

	appstate := st.State()
	assert.Empty(t, appstate.Sessions, "runs under a minute are discarded")
	assert.False(t, appstate.Timer.IsRunning)
	assert.Equal(t, 25*60, appstate.Timer.Remaining)
}

func TestFinish_NilSink(t *testing.T) {
	st := state.New()
	m := New(st, nil, nil)
	run(st, 600)

	m.Finish()
	assert.Len(t, st.State().Sessions, 1)
}

func TestPause_FreezesRemaining(t *testing.T) {
	m, st, _ := newTestMachine(t)
	run(st, 10)

	m.Pause()
	timer := st.State().Timer
	assert.False(t, timer.IsRunning)
	assert.True(t, timer.IsPaused)
	remaining := timer.Remaining

	m.Tick()
	assert.Equal(t, remaining, st.State().Timer.Remaining)
}

func TestPause_WhileIdleIsNoOp(t *testing.T) {
	m, st, _ := newTestMachine(t)

	m.Pause()

	timer := st.State().Timer
	assert.False(t, timer.IsRunning)
	assert.False(t, timer.IsPaused, "idle stays idle")
	assert.Nil(t, timer.StartTime)
}

func TestReset_DiscardsRun(t *testing.T) {
	m, st, _ := newTestMachine(t)
	run(st, 600)

	m.Reset()

	appstate := st.State()
	assert.Empty(t, appstate.Sessions)
	assert.False(t, appstate.Timer.IsRunning)
	assert.Nil(t, appstate.Timer.StartTime)
	assert.Equal(t, 25*60, appstate.Timer.Duration)
	assert.Equal(t, 25*60, appstate.Timer.Remaining)
}

func TestAdjust_FloorsAtOneMinute(t *testing.T) {
	m, st, _ := newTestMachine(t)

	m.Adjust(-10000)
	timer := st.State().Timer
	assert.Equal(t, models.MinSessionSeconds, timer.Duration)
	assert.Equal(t, models.MinSessionSeconds, timer.Remaining)

	m.Adjust(5 * 60)
	timer = st.State().Timer
	assert.Equal(t, models.MinSessionSeconds+5*60, timer.Duration)
	assert.Equal(t, models.MinSessionSeconds+5*60, timer.Remaining)
}

func TestSetMode_ResetsDurations(t *testing.T) {
	m, st, _ := newTestMachine(t)

	m.SetMode(models.ModeBreak)
	timer := st.State().Timer
	assert.Equal(t, models.ModeBreak, timer.Mode)
	assert.Equal(t, 5*60, timer.Duration)
	assert.Equal(t, 5*60, timer.Remaining)

	m.SetMode(models.ModeFocus)
	assert.Equal(t, 25*60, st.State().Timer.Duration)
}

func TestSetSessionType(t *testing.T) {
	m, st, _ := newTestMachine(t)

	m.SetSessionType(models.SessionTypeMeeting)
	assert.Equal(t, models.SessionTypeMeeting, st.State().Timer.SessionType)
}

// Package timer implements the countdown state machine driving the
// focus/break timer. Every transition writes through the state store;
// the machine keeps no state that could desync from it, other than the
// handle of the currently scheduled tick loop.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fokus/internal/models"
	"fokus/internal/state"
)

// Sink receives finished sessions for durable persistence. Saves are
// fire-and-forget from the machine's perspective: the local session log
// is authoritative and a failed save is only logged.
type Sink interface {
	SaveSession(ctx context.Context, s *models.Session) error
}

const saveTimeout = 10 * time.Second

// Machine drives timer transitions against a state store.
type Machine struct {
	store  *state.Store
	sink   Sink
	logger *slog.Logger

	mu   sync.Mutex
	stop chan struct{} // non-nil while a tick loop is scheduled

	now func() time.Time
}

// New returns a Machine writing through the given store. sink may be
// nil, in which case finished sessions are kept locally only.
func New(st *state.Store, sink Sink, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{store: st, sink: sink, logger: logger, now: time.Now}
}

// Start begins or resumes the countdown. A fresh run records its start
// time; resuming reuses the existing one and keeps the frozen remaining.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	patch := &state.TimerPatch{
		IsRunning: state.Ptr(true),
		IsPaused:  state.Ptr(false),
	}
	if m.store.State().Timer.StartTime == nil {
		now := m.now()
		patch.SetStartTime = true
		patch.StartTime = &now
	}
	m.store.Apply(state.Patch{Timer: patch})

	m.scheduleLocked()
}

// Pause freezes the countdown, leaving remaining untouched. Pausing
// while not running is a no-op; idle stays idle.
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.store.State().Timer.IsRunning {
		return
	}

	m.cancelLocked()
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{
		IsRunning: state.Ptr(false),
		IsPaused:  state.Ptr(true),
	}})
}

// Reset stops any tick and returns the timer to idle at the default
// duration for the current mode. No session is recorded.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	m.resetLocked()
}

// Finish ends the current run. Runs of at least a minute are appended
// to the session log and handed to the sink in a detached goroutine;
// shorter runs are discarded silently. The timer then resets to idle.
func (m *Machine) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finishLocked()
}

// Tick decrements remaining by one second while running. At zero it
// triggers finish rather than letting remaining go negative. Exposed so
// tests can drive the countdown deterministically.
func (m *Machine) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.store.State()
	if !st.Timer.IsRunning {
		return
	}

	remaining := st.Timer.Remaining - 1
	if remaining <= 0 {
		m.store.Apply(state.Patch{Timer: &state.TimerPatch{Remaining: state.Ptr(0)}})
		m.finishLocked()
		return
	}
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{Remaining: state.Ptr(remaining)}})
}

// Adjust shifts duration and remaining by delta seconds, each floored
// at one minute. Permitted in any state; intended for pre-start tuning.
func (m *Machine) Adjust(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.store.State()
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{
		Duration:  state.Ptr(max(models.MinSessionSeconds, st.Timer.Duration+delta)),
		Remaining: state.Ptr(max(models.MinSessionSeconds, st.Timer.Remaining+delta)),
	}})
}

// SetMode switches between focus and break, resetting duration and
// remaining from the corresponding default. Only meaningful when idle.
func (m *Machine) SetMode(mode models.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seconds := m.defaultSeconds(mode)
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{
		Mode:      &mode,
		Duration:  state.Ptr(seconds),
		Remaining: state.Ptr(seconds),
	}})
}

// SetSessionType records the session classification for the next finish.
func (m *Machine) SetSessionType(t models.SessionType) {
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{SessionType: &t}})
}

// SetCategory tags the running (or upcoming) session with a category.
func (m *Machine) SetCategory(id string) {
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{CategoryID: &id}})
}

// SetNote attaches a free-form note to the running (or upcoming) session.
func (m *Machine) SetNote(text string) {
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{Note: &text}})
}

// Close cancels any scheduled tick. The machine may be reused afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

func (m *Machine) finishLocked() {
	m.cancelLocked()

	st := m.store.State()
	t := st.Timer

	actual := t.Duration - t.Remaining
	if actual >= models.MinSessionSeconds {
		now := m.now()
		start := now.Add(-time.Duration(actual) * time.Second)
		if t.StartTime != nil {
			start = *t.StartTime
		}
		sess := models.Session{
			StartTime:       start,
			EndTime:         now,
			Duration:        actual,
			PlannedDuration: t.Duration,
			Kind:            models.Kind(t.Mode),
			SessionType:     t.SessionType,
			CategoryID:      t.CategoryID,
			Note:            t.Note,
			Completed:       t.Remaining <= 0,
		}
		m.store.AppendSession(sess)
		m.persist(sess)
	}

	m.resetLocked()
}

// persist hands the session to the sink without blocking the transition.
// At most one save is issued per finish; failures are logged, never
// retried, and never surface to the timer flow.
func (m *Machine) persist(sess models.Session) {
	if m.sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := m.sink.SaveSession(ctx, &sess); err != nil {
			m.logger.Error("session save failed", "error", err, "duration", sess.Duration)
		}
	}()
}

func (m *Machine) resetLocked() {
	mode := m.store.State().Timer.Mode
	seconds := m.defaultSeconds(mode)
	m.store.Apply(state.Patch{Timer: &state.TimerPatch{
		IsRunning:    state.Ptr(false),
		IsPaused:     state.Ptr(false),
		Duration:     state.Ptr(seconds),
		Remaining:    state.Ptr(seconds),
		SetStartTime: true,
		StartTime:    nil,
	}})
}

func (m *Machine) defaultSeconds(mode models.Mode) int {
	settings := m.store.State().Settings
	minutes := settings.WorkDuration
	if mode == models.ModeBreak {
		minutes = settings.BreakDuration
	}
	return minutes * 60
}

// scheduleLocked starts the 1-second tick loop, cancelling any prior
// handle first so at most one loop is ever outstanding.
func (m *Machine) scheduleLocked() {
	m.cancelLocked()
	stop := make(chan struct{})
	m.stop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.Tick()
			}
		}
	}()
}

func (m *Machine) cancelLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

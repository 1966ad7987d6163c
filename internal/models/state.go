package models

import "time"

// Mode is the timer's current mode.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// TimerState is the live countdown state. IsRunning and IsPaused are
// mutually exclusive; both false means idle. StartTime is non-nil only
// while a run has begun since the last reset.
type TimerState struct {
	IsRunning   bool        `json:"isRunning"`
	IsPaused    bool        `json:"isPaused"`
	Mode        Mode        `json:"mode"`
	SessionType SessionType `json:"sessionType"`
	Duration    int         `json:"duration"`  // seconds
	Remaining   int         `json:"remaining"` // seconds, 0..Duration
	CategoryID  string      `json:"categoryId,omitempty"`
	Note        string      `json:"note,omitempty"`
	StartTime   *time.Time  `json:"startTime,omitempty"`
}

// Goals are the user-configured focus targets in minutes.
type Goals struct {
	Daily  int `json:"daily"`
	Weekly int `json:"weekly"`
}

// Streak tracks consecutive days meeting the daily goal.
// Longest >= Current is re-asserted whenever Current changes.
type Streak struct {
	Current        int        `json:"current"`
	Longest        int        `json:"longest"`
	LastActiveDate *time.Time `json:"lastActiveDate,omitempty"`
}

// Settings are per-user preferences.
type Settings struct {
	WorkDuration         int  `json:"defaultWorkDuration"`  // minutes
	BreakDuration        int  `json:"defaultBreakDuration"` // minutes
	SoundEnabled         bool `json:"soundEnabled"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

// User identifies a signed-in user.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UIState holds view-layer state the core carries but does not interpret.
type UIState struct {
	CurrentPage string `json:"currentPage"`
	Loading     bool   `json:"loading"`
}

// AppState is the root application state. Exactly one instance exists
// per process, owned by the state store; consumers receive snapshots.
type AppState struct {
	User     *User      `json:"user,omitempty"`
	Sessions []Session  `json:"sessions"`
	Goals    Goals      `json:"goals"`
	Streak   Streak     `json:"streak"`
	Settings Settings   `json:"settings"`
	Timer    TimerState `json:"timer"`
	UI       UIState    `json:"ui"`
}

// DefaultSettings returns the out-of-box preferences.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:  25,
		BreakDuration: 5,
		SoundEnabled:  true,
	}
}

// DefaultGoals returns the out-of-box focus targets.
func DefaultGoals() Goals {
	return Goals{Daily: 240, Weekly: 1200}
}

// NewAppState returns a fresh AppState with defaults applied and the
// timer idle at the default work duration.
func NewAppState() AppState {
	settings := DefaultSettings()
	seconds := settings.WorkDuration * 60
	return AppState{
		Sessions: []Session{},
		Goals:    DefaultGoals(),
		Settings: settings,
		Timer: TimerState{
			Mode:        ModeFocus,
			SessionType: SessionTypeDeepWork,
			Duration:    seconds,
			Remaining:   seconds,
		},
		UI: UIState{CurrentPage: "dashboard", Loading: true},
	}
}

package state

import (
	"time"

	"fokus/internal/models"
)

// Patch describes a partial update to the application state. Nil fields
// are left untouched. Sub-patches merge field-by-field into their state
// slice; Sessions and User always replace wholesale, never merge.
type Patch struct {
	SetUser  bool
	User     *models.User
	Sessions *[]models.Session
	Goals    *GoalsPatch
	Streak   *StreakPatch
	Settings *SettingsPatch
	Timer    *TimerPatch
	UI       *UIPatch
}

// TimerPatch updates individual timer fields without clobbering
// siblings. StartTime is only written when SetStartTime is true, so a
// patch can clear it explicitly.
type TimerPatch struct {
	IsRunning    *bool
	IsPaused     *bool
	Mode         *models.Mode
	SessionType  *models.SessionType
	Duration     *int
	Remaining    *int
	CategoryID   *string
	Note         *string
	SetStartTime bool
	StartTime    *time.Time
}

// GoalsPatch updates focus targets.
type GoalsPatch struct {
	Daily  *int
	Weekly *int
}

// StreakPatch updates streak bookkeeping. LastActiveDate is only
// written when SetLastActive is true.
type StreakPatch struct {
	Current       *int
	Longest       *int
	SetLastActive bool
	LastActive    *time.Time
}

// SettingsPatch updates user preferences.
type SettingsPatch struct {
	WorkDuration         *int
	BreakDuration        *int
	SoundEnabled         *bool
	NotificationsEnabled *bool
}

// UIPatch updates view-layer state.
type UIPatch struct {
	CurrentPage *string
	Loading     *bool
}

func (p *TimerPatch) apply(t *models.TimerState) {
	if p.IsRunning != nil {
		t.IsRunning = *p.IsRunning
	}
	if p.IsPaused != nil {
		t.IsPaused = *p.IsPaused
	}
	if p.Mode != nil {
		t.Mode = *p.Mode
	}
	if p.SessionType != nil {
		t.SessionType = *p.SessionType
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Remaining != nil {
		t.Remaining = *p.Remaining
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.SetStartTime {
		t.StartTime = p.StartTime
	}
}

func (p *GoalsPatch) apply(g *models.Goals) {
	if p.Daily != nil {
		g.Daily = *p.Daily
	}
	if p.Weekly != nil {
		g.Weekly = *p.Weekly
	}
}

func (p *StreakPatch) apply(s *models.Streak) {
	if p.Current != nil {
		s.Current = *p.Current
	}
	if p.Longest != nil {
		s.Longest = *p.Longest
	}
	if p.SetLastActive {
		s.LastActiveDate = p.LastActive
	}
}

func (p *SettingsPatch) apply(s *models.Settings) {
	if p.WorkDuration != nil {
		s.WorkDuration = *p.WorkDuration
	}
	if p.BreakDuration != nil {
		s.BreakDuration = *p.BreakDuration
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
}

func (p *UIPatch) apply(u *models.UIState) {
	if p.CurrentPage != nil {
		u.CurrentPage = *p.CurrentPage
	}
	if p.Loading != nil {
		u.Loading = *p.Loading
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }

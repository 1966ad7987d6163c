// Package export produces the durable data-portability snapshot handed
// to users on demand, and reconstructs state from one.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"fokus/internal/models"
	"fokus/internal/state"
)

// Snapshot is the portable representation of a user's data.
type Snapshot struct {
	Sessions []models.Session `json:"sessions" yaml:"sessions"`
	Goals    models.Goals     `json:"goals" yaml:"goals"`
	Streak   models.Streak    `json:"streak" yaml:"streak"`
	Settings models.Settings  `json:"settings" yaml:"settings"`
	// ExportedAt is serialized as an ISO-8601 timestamp.
	ExportedAt time.Time `json:"exportedAt" yaml:"exportedAt"`
}

// FromState captures the exportable slices of the app state.
func FromState(st models.AppState, now time.Time) Snapshot {
	return Snapshot{
		Sessions:   st.Sessions,
		Goals:      st.Goals,
		Streak:     st.Streak,
		Settings:   st.Settings,
		ExportedAt: now,
	}
}

// WriteJSON writes the snapshot as indented JSON.
func (s Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// WriteYAML writes the snapshot as YAML.
func (s Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadJSON parses a snapshot previously written with WriteJSON.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Patch reconstructs the sessions, goals, streak, and settings slices
// from the snapshot so a round trip restores them exactly.
func (s Snapshot) Patch() state.Patch {
	sessions := s.Sessions
	if sessions == nil {
		sessions = []models.Session{}
	}
	return state.Patch{
		Sessions: &sessions,
		Goals:    &state.GoalsPatch{Daily: &s.Goals.Daily, Weekly: &s.Goals.Weekly},
		Streak: &state.StreakPatch{
			Current:       &s.Streak.Current,
			Longest:       &s.Streak.Longest,
			SetLastActive: true,
			LastActive:    s.Streak.LastActiveDate,
		},
		Settings: &state.SettingsPatch{
			WorkDuration:         &s.Settings.WorkDuration,
			BreakDuration:        &s.Settings.BreakDuration,
			SoundEnabled:         &s.Settings.SoundEnabled,
			NotificationsEnabled: &s.Settings.NotificationsEnabled,
		},
	}
}

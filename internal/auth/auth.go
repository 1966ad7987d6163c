// Package auth is the identity boundary. It reacts to sign-in/sign-out
// by populating or clearing the user slices of the app state, and gates
// operations that require a signed-in user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fokus/internal/analytics"
	"fokus/internal/models"
	"fokus/internal/state"
	"fokus/internal/store"
)

// ErrNoUser is returned by operations that require a signed-in user.
var ErrNoUser = errors.New("no signed-in user")

// loadWindow is how far back sessions are loaded at sign-in.
const loadWindow = 30 * 24 * time.Hour

// Service wires the persistence layer to the app state on identity
// changes, and records finished sessions on behalf of the current user.
type Service struct {
	store  store.Store
	app    *state.Store
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Service bound to the given store and app state.
func New(st store.Store, app *state.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, app: app, logger: logger, now: time.Now}
}

// SignIn loads (or creates) the user and their profile, populates the
// app state with user, settings, goals, streak, and recent sessions,
// and evaluates the streak against today. Load failures for profile and
// sessions degrade to defaults and an empty list rather than failing
// the sign-in.
func (s *Service) SignIn(ctx context.Context, email, displayName string) (*models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		u = &models.User{Email: email, DisplayName: displayName}
		if err := s.store.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("sign in: %w", err)
		}
		profile := &store.Profile{Settings: models.DefaultSettings(), Goals: models.DefaultGoals()}
		if err := s.store.SaveProfile(ctx, u.ID, profile); err != nil {
			return nil, fmt.Errorf("sign in: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	profile, err := s.store.LoadProfile(ctx, u.ID)
	if err != nil {
		s.logger.Warn("profile load failed, using defaults", "error", err)
		profile = &store.Profile{Settings: models.DefaultSettings(), Goals: models.DefaultGoals()}
	}

	now := s.now()
	sessions, err := s.store.ListSessions(ctx, u.ID, now.Add(-loadWindow), now.Add(24*time.Hour))
	if err != nil {
		s.logger.Warn("session load failed, starting empty", "error", err)
		sessions = []models.Session{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	// Startup streak evaluation: a missed day since LastActiveDate
	// resets the streak before anything renders.
	today := analytics.Today(sessions, profile.Goals, now)
	streak := analytics.UpdateStreak(profile.Streak, today.TotalSeconds, profile.Goals, now)

	s.app.Apply(state.Patch{
		SetUser:  true,
		User:     u,
		Sessions: &sessions,
		Settings: settingsPatch(profile.Settings),
		Goals:    &state.GoalsPatch{Daily: &profile.Goals.Daily, Weekly: &profile.Goals.Weekly},
		Streak:   streakPatch(streak),
	})

	if streak != profile.Streak {
		profile.Streak = streak
		if err := s.store.SaveProfile(ctx, u.ID, profile); err != nil {
			s.logger.Warn("streak save failed", "error", err)
		}
	}
	return u, nil
}

// SignOut clears the user and every user-owned slice back to defaults.
func (s *Service) SignOut() {
	defaults := models.DefaultSettings()
	goals := models.DefaultGoals()
	empty := []models.Session{}
	s.app.Apply(state.Patch{
		SetUser:  true,
		User:     nil,
		Sessions: &empty,
		Settings: settingsPatch(defaults),
		Goals:    &state.GoalsPatch{Daily: &goals.Daily, Weekly: &goals.Weekly},
		Streak: &state.StreakPatch{
			Current: state.Ptr(0), Longest: state.Ptr(0),
			SetLastActive: true, LastActive: nil,
		},
	})
}

// CurrentUser returns the signed-in user, or ErrNoUser.
func (s *Service) CurrentUser() (*models.User, error) {
	u := s.app.State().User
	if u == nil {
		return nil, ErrNoUser
	}
	return u, nil
}

// SaveSession durably records a finished session for the current user
// and advances the streak. It is the timer machine's persistence sink;
// the session is already in the local log when this runs, so any error
// here is reported to the caller for logging only.
func (s *Service) SaveSession(ctx context.Context, sess *models.Session) error {
	u, err := s.CurrentUser()
	if err != nil {
		return err
	}

	// Streak is evaluated once per finish, against the local log.
	st := s.app.State()
	now := s.now()
	today := analytics.Today(st.Sessions, st.Goals, now)
	streak := analytics.UpdateStreak(st.Streak, today.TotalSeconds, st.Goals, now)
	if streak != st.Streak {
		s.app.Apply(state.Patch{Streak: streakPatch(streak)})
		profile := &store.Profile{Settings: st.Settings, Goals: st.Goals, Streak: streak}
		if err := s.store.SaveProfile(ctx, u.ID, profile); err != nil {
			s.logger.Warn("streak save failed", "error", err)
		}
	}

	return s.store.SaveSession(ctx, u.ID, sess)
}

// SaveProfile persists the current settings, goals, and streak for the
// signed-in user.
func (s *Service) SaveProfile(ctx context.Context) error {
	u, err := s.CurrentUser()
	if err != nil {
		return err
	}
	st := s.app.State()
	profile := &store.Profile{Settings: st.Settings, Goals: st.Goals, Streak: st.Streak}
	return s.store.SaveProfile(ctx, u.ID, profile)
}

func settingsPatch(v models.Settings) *state.SettingsPatch {
	return &state.SettingsPatch{
		WorkDuration:         &v.WorkDuration,
		BreakDuration:        &v.BreakDuration,
		SoundEnabled:         &v.SoundEnabled,
		NotificationsEnabled: &v.NotificationsEnabled,
	}
}

func streakPatch(v models.Streak) *state.StreakPatch {
	return &state.StreakPatch{
		Current:       &v.Current,
		Longest:       &v.Longest,
		SetLastActive: true,
		LastActive:    v.LastActiveDate,
	}
}

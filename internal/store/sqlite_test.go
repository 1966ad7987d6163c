package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fokus/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	err = s.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *SQLiteStore) *models.User {
	t.Helper()
	u := &models.User{Email: "alex@example.com", DisplayName: "Alex"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Running migrate again should be a no-op
	err := s.Migrate(ctx)
	assert.NoError(t, err)
}

// --- Users ---

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "alex@example.com", DisplayName: "Alex"}
	err := s.CreateUser(ctx, u)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.DisplayName, got.DisplayName)

	byEmail, err := s.GetUserByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Profiles ---

func TestProfileSaveLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	lastActive := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	p := &Profile{
		Settings: models.Settings{
			WorkDuration:         50,
			BreakDuration:        10,
			SoundEnabled:         true,
			NotificationsEnabled: false,
		},
		Goals:  models.Goals{Daily: 300, Weekly: 1500},
		Streak: models.Streak{Current: 4, Longest: 9, LastActiveDate: &lastActive},
	}
	require.NoError(t, s.SaveProfile(ctx, u.ID, p))

	got, err := s.LoadProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Settings.WorkDuration)
	assert.Equal(t, 10, got.Settings.BreakDuration)
	assert.True(t, got.Settings.SoundEnabled)
	assert.False(t, got.Settings.NotificationsEnabled)
	assert.Equal(t, 300, got.Goals.Daily)
	assert.Equal(t, 1500, got.Goals.Weekly)
	assert.Equal(t, 4, got.Streak.Current)
	assert.Equal(t, 9, got.Streak.Longest)
	require.NotNil(t, got.Streak.LastActiveDate)
	assert.Equal(t, lastActive, got.Streak.LastActiveDate.UTC())
}

func TestProfileSave_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	p := &Profile{
		Settings: models.DefaultSettings(),
		Goals:    models.DefaultGoals(),
	}
	require.NoError(t, s.SaveProfile(ctx, u.ID, p))

	p.Goals.Daily = 480
	p.Streak.Current = 2
	p.Streak.Longest = 2
	require.NoError(t, s.SaveProfile(ctx, u.ID, p))

	got, err := s.LoadProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 480, got.Goals.Daily)
	assert.Equal(t, 2, got.Streak.Current)
	assert.Nil(t, got.Streak.LastActiveDate)
}

func TestLoadProfile_NotFound(t *testing.T) {
	s := newTestStore(t)
	u := createTestUser(t, s)

	_, err := s.LoadProfile(context.Background(), u.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

// --- Sessions ---

func testSession(start time.Time, seconds int) *models.Session {
	return &models.Session{
		StartTime:       start,
		EndTime:         start.Add(time.Duration(seconds) * time.Second),
		Duration:        seconds,
		PlannedDuration: 1500,
		Kind:            models.KindFocus,
		SessionType:     models.SessionTypeDeepWork,
		CategoryID:      "coding",
		Note:            "api refactor",
		Completed:       seconds >= 1500,
	}
}

func TestSessionSaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sess := testSession(start, 1500)
	err := s.SaveSession(ctx, u.ID, sess)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := s.ListAllSessions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sess.ID, got[0].ID)
	assert.Equal(t, models.KindFocus, got[0].Kind)
	assert.Equal(t, models.SessionTypeDeepWork, got[0].SessionType)
	assert.Equal(t, "coding", got[0].CategoryID)
	assert.Equal(t, "api refactor", got[0].Note)
	assert.Equal(t, 1500, got[0].Duration)
	assert.True(t, got[0].Completed)
	assert.Equal(t, start, got[0].StartTime.UTC())
}

func TestListSessions_RangeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	for _, start := range []time.Time{day2, day1, day3} {
		require.NoError(t, s.SaveSession(ctx, u.ID, testSession(start, 1500)))
	}

	// Half-open range: includes day1 and day2, excludes day3
	got, err := s.ListSessions(ctx, u.ID, day1, day3)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by start time regardless of insert order
	assert.Equal(t, day1, got[0].StartTime.UTC())
	assert.Equal(t, day2, got[1].StartTime.UTC())
}

func TestListSessions_ScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u1 := createTestUser(t, s)
	u2 := &models.User{Email: "sam@example.com", DisplayName: "Sam"}
	require.NoError(t, s.CreateUser(ctx, u2))

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveSession(ctx, u1.ID, testSession(start, 1500)))

	got, err := s.ListAllSessions(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

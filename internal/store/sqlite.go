package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"fokus/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Limiting to a single
	// connection serializes all DB access through Go's connection pool,
	// preventing "database is locked" errors from concurrent saves.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout so concurrent writes wait instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// boolToInt converts a bool to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	// Create migrations tracking table
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// Sort by filename
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Check if already applied
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		contents, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newULID()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.DisplayName, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// --- Profiles ---

func (s *SQLiteStore) SaveProfile(ctx context.Context, userID string, p *Profile) error {
	var lastActive any
	if p.Streak.LastActiveDate != nil {
		lastActive = p.Streak.LastActiveDate.UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, work_duration, break_duration, sound_enabled, notifications_enabled,
			daily_goal, weekly_goal, streak_current, streak_longest, streak_last_active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			work_duration=excluded.work_duration,
			break_duration=excluded.break_duration,
			sound_enabled=excluded.sound_enabled,
			notifications_enabled=excluded.notifications_enabled,
			daily_goal=excluded.daily_goal,
			weekly_goal=excluded.weekly_goal,
			streak_current=excluded.streak_current,
			streak_longest=excluded.streak_longest,
			streak_last_active=excluded.streak_last_active,
			updated_at=excluded.updated_at`,
		userID, p.Settings.WorkDuration, p.Settings.BreakDuration,
		boolToInt(p.Settings.SoundEnabled), boolToInt(p.Settings.NotificationsEnabled),
		p.Goals.Daily, p.Goals.Weekly,
		p.Streak.Current, p.Streak.Longest, lastActive, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadProfile(ctx context.Context, userID string) (*Profile, error) {
	p := &Profile{}
	var lastActive sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT work_duration, break_duration, sound_enabled, notifications_enabled,
			daily_goal, weekly_goal, streak_current, streak_longest, streak_last_active
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.Settings.WorkDuration, &p.Settings.BreakDuration,
		&p.Settings.SoundEnabled, &p.Settings.NotificationsEnabled,
		&p.Goals.Daily, &p.Goals.Weekly,
		&p.Streak.Current, &p.Streak.Longest, &lastActive)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if lastActive.Valid {
		t := lastActive.Time
		p.Streak.LastActiveDate = &t
	}
	return p, nil
}

// --- Sessions ---

func (s *SQLiteStore) SaveSession(ctx context.Context, userID string, sess *models.Session) error {
	if sess.ID == "" {
		sess.ID = newULID()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, start_time, end_time, duration, planned_duration,
			kind, session_type, category_id, note, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, userID, sess.StartTime.UTC(), sess.EndTime.UTC(),
		sess.Duration, sess.PlannedDuration,
		string(sess.Kind), string(sess.SessionType), sess.CategoryID, sess.Note,
		boolToInt(sess.Completed), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, userID string, from, to time.Time) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_time, end_time, duration, planned_duration, kind, session_type, category_id, note, completed
		FROM sessions WHERE user_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time`, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

func (s *SQLiteStore) ListAllSessions(ctx context.Context, userID string) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_time, end_time, duration, planned_duration, kind, session_type, category_id, note, completed
		FROM sessions WHERE user_id = ? ORDER BY start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("list all sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]models.Session, error) {
	var sessions []models.Session
	for rows.Next() {
		var sess models.Session
		var kind, sessionType string
		if err := rows.Scan(&sess.ID, &sess.StartTime, &sess.EndTime, &sess.Duration,
			&sess.PlannedDuration, &kind, &sessionType, &sess.CategoryID, &sess.Note,
			&sess.Completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Kind = models.Kind(kind)
		sess.SessionType = models.SessionType(sessionType)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

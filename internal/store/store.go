package store

import (
	"context"
	"errors"
	"time"

	"fokus/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Profile is the durable per-user state: preferences, goals, and streak
// bookkeeping. Session records live in their own table.
type Profile struct {
	Settings models.Settings
	Goals    models.Goals
	Streak   models.Streak
}

// Store defines the persistence interface for fokus. It stands in for
// the remote session-store collaborator: session saves are fire-and-
// forget from the timer's perspective, and list failures degrade to an
// empty result at the call site.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Profiles
	SaveProfile(ctx context.Context, userID string, p *Profile) error
	LoadProfile(ctx context.Context, userID string) (*Profile, error)

	// Sessions
	SaveSession(ctx context.Context, userID string, s *models.Session) error
	ListSessions(ctx context.Context, userID string, from, to time.Time) ([]models.Session, error)
	ListAllSessions(ctx context.Context, userID string) ([]models.Session, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

package store

import (
	"context"
	"errors"
	"time"

	"schedguard/internal/validation"
)

var ErrDisabled = errors.New("storage disabled")

// ErrUserNotFound is the engine's sentinel so callers can match either name.
var ErrUserNotFound = validation.ErrUserNotFound

// Config configures storage.
//
// Driver values:
//   - "memory": in-process maps, lost on exit (tests, dry runs)
//   - "sqlite": SQLite database file
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// User is a stored user with their waking window.
type User struct {
	ID        string
	WakeTime  string
	SleepTime string
	TimeZone  string
}

// Task is a stored task. Only existence and ownership matter here.
type Task struct {
	ID     string
	UserID string
	Title  string
}

// Habit is a stored habit definition owned by a user.
type Habit struct {
	UserID string
	validation.HabitDefinition
}

// Event is a synced external calendar event owned by a user.
type Event struct {
	UserID string
	validation.ExternalEvent
}

// AuditEntry records one validation run.
// Keep it compact and schema-stable.
type AuditEntry struct {
	ID            string    `json:"id"`
	At            time.Time `json:"at"`
	UserID        string    `json:"user_id"`
	Source        string    `json:"source"`
	Valid         bool      `json:"valid"`
	Errors        int       `json:"errors"`
	Warnings      int       `json:"warnings"`
	ConflictCheck string    `json:"conflict_check"`
}

// Store is the persistence API used by the CLI and inbox.
type Store interface {
	validation.EntityStore
	validation.CalendarSource

	PutUser(ctx context.Context, u User) error
	PutTask(ctx context.Context, t Task) error
	PutHabit(ctx context.Context, h Habit) error
	PutEvent(ctx context.Context, e Event) error

	AppendAudit(ctx context.Context, e AuditEntry) error
	RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error)
	Close() error
}

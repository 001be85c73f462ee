package validation

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned by EntityStore.UserConstraints for unknown users.
var ErrUserNotFound = errors.New("user not found")

// EntityStore resolves the requesting user's own data. The batch methods
// take the full candidate id set so a batch costs one query per entity type.
type EntityStore interface {
	UserConstraints(ctx context.Context, userID string) (UserConstraints, error)
	// ExistingTaskIDs returns the subset of ids that exist and belong to userID.
	ExistingTaskIDs(ctx context.Context, userID string, ids []string) ([]string, error)
	// Habits returns the definitions of the subset of ids that exist and belong to userID.
	Habits(ctx context.Context, userID string, ids []string) ([]HabitDefinition, error)
}

// CalendarSource reads the user's external calendar.
type CalendarSource interface {
	// Events returns events overlapping [from, to).
	Events(ctx context.Context, userID string, from, to time.Time) ([]ExternalEvent, error)
}

// Classifier splits calendar events into immovable and reschedulable ones.
type Classifier interface {
	Partition(events []ExternalEvent) (fixed, movable []ExternalEvent)
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(events []ExternalEvent) (fixed, movable []ExternalEvent)

func (f ClassifierFunc) Partition(events []ExternalEvent) ([]ExternalEvent, []ExternalEvent) {
	return f(events)
}

// AllFixed treats every event as immovable.
var AllFixed = ClassifierFunc(func(events []ExternalEvent) ([]ExternalEvent, []ExternalEvent) {
	return events, nil
})

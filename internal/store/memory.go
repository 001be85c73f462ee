package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"schedguard/internal/validation"
)

// Memory is a map-backed Store.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]User
	tasks  map[string]Task
	habits map[string]Habit
	events map[string]Event
	audit  []AuditEntry
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]User),
		tasks:  make(map[string]Task),
		habits: make(map[string]Habit),
		events: make(map[string]Event),
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) PutUser(ctx context.Context, u User) error {
	_ = ctx
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id is required")
	}
	m.mu.Lock()
	m.users[u.ID] = u
	m.mu.Unlock()
	return nil
}

func (m *Memory) PutTask(ctx context.Context, t Task) error {
	_ = ctx
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("task id is required")
	}
	m.mu.Lock()
	m.tasks[t.ID] = t
	m.mu.Unlock()
	return nil
}

func (m *Memory) PutHabit(ctx context.Context, h Habit) error {
	_ = ctx
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("habit id is required")
	}
	h.Weekdays = append([]time.Weekday(nil), h.Weekdays...)
	m.mu.Lock()
	m.habits[h.ID] = h
	m.mu.Unlock()
	return nil
}

func (m *Memory) PutEvent(ctx context.Context, e Event) error {
	_ = ctx
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id is required")
	}
	m.mu.Lock()
	m.events[e.UserID+"\x00"+e.ID] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) UserConstraints(ctx context.Context, userID string) (validation.UserConstraints, error) {
	_ = ctx
	m.mu.RLock()
	u, ok := m.users[userID]
	m.mu.RUnlock()
	if !ok {
		return validation.UserConstraints{}, ErrUserNotFound
	}
	return validation.UserConstraints{WakeTime: u.WakeTime, SleepTime: u.SleepTime, TimeZone: u.TimeZone}, nil
}

func (m *Memory) ExistingTaskIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := m.tasks[id]; ok && t.UserID == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) Habits(ctx context.Context, userID string, ids []string) ([]validation.HabitDefinition, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]validation.HabitDefinition, 0, len(ids))
	for _, id := range ids {
		h, ok := m.habits[id]
		if !ok || h.UserID != userID {
			continue
		}
		def := h.HabitDefinition
		def.Weekdays = append([]time.Weekday(nil), h.Weekdays...)
		out = append(out, def)
	}
	return out, nil
}

func (m *Memory) Events(ctx context.Context, userID string, from, to time.Time) ([]validation.ExternalEvent, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []validation.ExternalEvent
	for _, e := range m.events {
		if e.UserID != userID {
			continue
		}
		if e.Start.Before(to) && e.End.After(from) {
			out = append(out, e.ExternalEvent)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) AppendAudit(ctx context.Context, e AuditEntry) error {
	_ = ctx
	if e.At.IsZero() {
		e.At = time.Now()
	}
	m.mu.Lock()
	m.audit = append(m.audit, e)
	m.mu.Unlock()
	return nil
}

// RecentAudit returns up to limit entries, newest first.
func (m *Memory) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.audit) {
		limit = len(m.audit)
	}
	out := make([]AuditEntry, 0, limit)
	for i := len(m.audit) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.audit[i])
	}
	return out, nil
}

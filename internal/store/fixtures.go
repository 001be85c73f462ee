package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"

	"schedguard/internal/validation"
)

// Fixtures is the YAML seed document accepted by Seed.
//
// Example:
//
//	users:
//	  - {id: u1, wake_time: "08:00", sleep_time: "23:00", time_zone: America/New_York}
//	habits:
//	  - {id: gym, user_id: u1, title: Gym, frequency: weekly, weekdays: [mon, thu]}
type Fixtures struct {
	Users  []userFixture  `yaml:"users"`
	Tasks  []taskFixture  `yaml:"tasks"`
	Habits []habitFixture `yaml:"habits"`
	Events []eventFixture `yaml:"events"`
}

type userFixture struct {
	ID        string `yaml:"id"`
	WakeTime  string `yaml:"wake_time"`
	SleepTime string `yaml:"sleep_time"`
	TimeZone  string `yaml:"time_zone"`
}

type taskFixture struct {
	ID     string `yaml:"id"`
	UserID string `yaml:"user_id"`
	Title  string `yaml:"title"`
}

type habitFixture struct {
	ID        string   `yaml:"id"`
	UserID    string   `yaml:"user_id"`
	Title     string   `yaml:"title"`
	Frequency string   `yaml:"frequency"`
	Weekdays  []string `yaml:"weekdays"`
}

type eventFixture struct {
	ID      string    `yaml:"id"`
	UserID  string    `yaml:"user_id"`
	Summary string    `yaml:"summary"`
	Start   time.Time `yaml:"start"`
	End     time.Time `yaml:"end"`
	Movable bool      `yaml:"movable"`
}

// SeedCounts reports how many records Seed wrote.
type SeedCounts struct {
	Users  int `json:"users"`
	Tasks  int `json:"tasks"`
	Habits int `json:"habits"`
	Events int `json:"events"`
}

// LoadFixtures reads and decodes a fixture file. Unknown keys are rejected.
func LoadFixtures(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}
	return &fx, nil
}

// Seed writes fixtures into st. Existing records with the same ids are replaced.
func Seed(ctx context.Context, st Store, fx *Fixtures) (SeedCounts, error) {
	var n SeedCounts
	if fx == nil {
		return n, nil
	}
	for _, u := range fx.Users {
		if err := st.PutUser(ctx, User{ID: u.ID, WakeTime: u.WakeTime, SleepTime: u.SleepTime, TimeZone: u.TimeZone}); err != nil {
			return n, fmt.Errorf("user %s: %w", u.ID, err)
		}
		n.Users++
	}
	for _, t := range fx.Tasks {
		if err := st.PutTask(ctx, Task{ID: t.ID, UserID: t.UserID, Title: t.Title}); err != nil {
			return n, fmt.Errorf("task %s: %w", t.ID, err)
		}
		n.Tasks++
	}
	for _, h := range fx.Habits {
		freq := validation.Frequency(strings.ToLower(strings.TrimSpace(h.Frequency)))
		switch freq {
		case validation.FrequencyDaily, validation.FrequencyWeekly, validation.FrequencyCustom:
		default:
			return n, fmt.Errorf("habit %s: unknown frequency %q", h.ID, h.Frequency)
		}
		days := make([]time.Weekday, 0, len(h.Weekdays))
		for _, raw := range h.Weekdays {
			d, err := ParseWeekday(raw)
			if err != nil {
				return n, fmt.Errorf("habit %s: %w", h.ID, err)
			}
			days = append(days, d)
		}
		habit := Habit{
			UserID: h.UserID,
			HabitDefinition: validation.HabitDefinition{
				ID:        h.ID,
				Title:     h.Title,
				Frequency: freq,
				Weekdays:  days,
			},
		}
		if err := st.PutHabit(ctx, habit); err != nil {
			return n, fmt.Errorf("habit %s: %w", h.ID, err)
		}
		n.Habits++
	}
	for _, e := range fx.Events {
		if !e.End.After(e.Start) {
			return n, fmt.Errorf("event %s: end must be after start", e.ID)
		}
		ev := Event{
			UserID: e.UserID,
			ExternalEvent: validation.ExternalEvent{
				ID:      e.ID,
				Summary: e.Summary,
				Start:   e.Start,
				End:     e.End,
				Movable: e.Movable,
			},
		}
		if err := st.PutEvent(ctx, ev); err != nil {
			return n, fmt.Errorf("event %s: %w", e.ID, err)
		}
		n.Events++
	}
	return n, nil
}

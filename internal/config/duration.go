package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultBusyTimeout     = time.Second
	DefaultCalendarTimeout = 5 * time.Second
)

// ParseDurationField parses a Go duration string. Empty means 0; negative
// values are rejected. path names the field in errors.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with def for empty or zero values.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil || d > 0 {
		return d, err
	}
	return def, nil
}

// BusyTimeoutOrDefault returns storage.busy_timeout, DefaultBusyTimeout when unset.
func (s StorageConfig) BusyTimeoutOrDefault() (time.Duration, error) {
	return ParseDurationOrDefault("storage.busy_timeout", s.BusyTimeout, DefaultBusyTimeout)
}

// TimeoutOrDefault returns calendar.timeout, DefaultCalendarTimeout when unset.
func (c CalendarConfig) TimeoutOrDefault() (time.Duration, error) {
	return ParseDurationOrDefault("calendar.timeout", c.Timeout, DefaultCalendarTimeout)
}

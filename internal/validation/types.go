package validation

import (
	"time"
)

// ErrorKind is the closed taxonomy of blocking findings.
type ErrorKind string

const (
	KindInvalidReference ErrorKind = "INVALID_REFERENCE"
	KindOutsideWakeSleep ErrorKind = "OUTSIDE_WAKE_SLEEP"
	KindOverlap          ErrorKind = "OVERLAP"
	KindTimestampInvalid ErrorKind = "TIMESTAMP_INVALID"
	KindHabitIncomplete  ErrorKind = "HABIT_INCOMPLETE"
	KindUserNotFound     ErrorKind = "USER_NOT_FOUND"
)

// WarningKind is the closed taxonomy of advisory findings.
type WarningKind string

const (
	WarnConsecutiveBlocks WarningKind = "CONSECUTIVE_BLOCKS"
	WarnLateNight         WarningKind = "LATE_NIGHT"
)

// Severity is informational. Both tiers make a batch invalid.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
)

// BatchLevel is the block index of findings not tied to a single block.
const BatchLevel = -1

// ValidationError is a blocking finding.
type ValidationError struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	BlockIndex int       `json:"block_index"`
	Severity   Severity  `json:"severity"`
}

// ValidationWarning is an advisory finding; it never affects Result.Valid.
type ValidationWarning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	BlockIndex int         `json:"block_index"`
}

// Options toggles optional rules for one call.
type Options struct {
	AllowOverlaps         bool `json:"allow_overlaps"`
	StrictHabitValidation bool `json:"strict_habit_validation"`
}

// UserConstraints is the user's waking window and zone.
// WakeTime and SleepTime are local-clock "HH:MM" values.
type UserConstraints struct {
	WakeTime  string
	SleepTime string
	TimeZone  string
}

// ExternalEvent is an entry from the user's external calendar.
// Movable is the provider's own hint (e.g. a "free"/transparent event);
// the Classifier makes the final fixed/movable call.
type ExternalEvent struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
	Movable bool
}

// Frequency is a habit recurrence frequency.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// HabitDefinition is a stored habit as seen by the completeness audit.
// Weekdays is only meaningful for FrequencyWeekly.
type HabitDefinition struct {
	ID        string
	Title     string
	Frequency Frequency
	Weekdays  []time.Weekday
}

// ConflictStatus records whether calendar conflicts were actually checked.
type ConflictStatus string

const (
	ConflictChecked         ConflictStatus = "checked"
	ConflictSkippedByOption ConflictStatus = "skipped_by_option"
	ConflictSkippedNoBlocks ConflictStatus = "skipped_no_blocks"
	// ConflictSkippedProviderError means the calendar fetch failed and the
	// batch was judged without conflict detection (fail-open).
	ConflictSkippedProviderError ConflictStatus = "skipped_provider_error"
)

// ConflictCheck is the outcome of the conflict detector.
type ConflictCheck struct {
	Status ConflictStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
}

// Result is the sole output of Engine.Validate.
type Result struct {
	Valid         bool                `json:"valid"`
	Errors        []ValidationError   `json:"errors"`
	Warnings      []ValidationWarning `json:"warnings"`
	ConflictCheck ConflictCheck       `json:"conflict_check"`
}

// Critical returns only the critical-severity errors.
func (r Result) Critical() []ValidationError {
	out := make([]ValidationError, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Severity == SeverityCritical {
			out = append(out, e)
		}
	}
	return out
}

// HasCritical reports whether any error is critical.
func (r Result) HasCritical() bool {
	for _, e := range r.Errors {
		if e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Kinds returns the distinct error kinds present, in first-seen order.
func (r Result) Kinds() []ErrorKind {
	seen := map[ErrorKind]struct{}{}
	out := make([]ErrorKind, 0, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := seen[e.Kind]; ok {
			continue
		}
		seen[e.Kind] = struct{}{}
		out = append(out, e.Kind)
	}
	return out
}

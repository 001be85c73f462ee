package config

// Config is the on-disk configuration (JSON or YAML).
type Config struct {
	Logging    LoggingConfig    `json:"logging"`
	Storage    *StorageConfig   `json:"storage,omitempty"`
	Calendar   CalendarConfig   `json:"calendar"`
	Validation ValidationConfig `json:"validation"`
	Inbox      *InboxConfig     `json:"inbox,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig selects the entity store.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./data/schedguard.db" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// CalendarConfig bounds calls to the external calendar.
//
// Defaults (when fields are omitted/zero):
//   - rate_per_sec: 0 (unlimited)
//   - burst: 1
//   - timeout: "5s"
//   - movable_keywords: focus, tentative, hold, optional
type CalendarConfig struct {
	RatePerSec      float64  `json:"rate_per_sec,omitempty"`
	Burst           int      `json:"burst,omitempty"`
	Timeout         string   `json:"timeout,omitempty"`
	MovableKeywords []string `json:"movable_keywords,omitempty"`
}

// ValidationConfig holds default options for batches that carry none.
type ValidationConfig struct {
	AllowOverlaps         bool `json:"allow_overlaps"`
	StrictHabitValidation bool `json:"strict_habit_validation"`
}

// InboxConfig controls the watch spool.
//
// Rescan is a cron spec or "@every <duration>" evaluated in Timezone
// (IANA, default UTC). OutDir defaults to <dir>/results.
type InboxConfig struct {
	Dir      string `json:"dir"`
	OutDir   string `json:"out_dir,omitempty"`
	Rescan   string `json:"rescan,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

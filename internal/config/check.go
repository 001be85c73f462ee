package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// rescanParser accepts the same specs as the inbox scheduler.
var rescanParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Check validates values that JSON decoding cannot (durations, drivers, zones).
func Check(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Storage != nil {
		switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
		case "memory":
		case "sqlite", "sqlite3":
			if strings.TrimSpace(cfg.Storage.Path) == "" {
				return errors.New("storage.path is required when storage.driver=sqlite")
			}
		case "", "none":
			return errors.New("storage.driver is required (memory or sqlite); omit the storage section for an in-memory store")
		default:
			return fmt.Errorf("unknown storage.driver: %q", cfg.Storage.Driver)
		}
		if _, err := cfg.Storage.BusyTimeoutOrDefault(); err != nil {
			return err
		}
	}
	if _, err := cfg.Calendar.TimeoutOrDefault(); err != nil {
		return err
	}
	if cfg.Calendar.RatePerSec < 0 {
		return errors.New("calendar.rate_per_sec must be >= 0")
	}
	if cfg.Inbox != nil {
		if err := checkInbox(cfg.Inbox); err != nil {
			return err
		}
	}
	return nil
}

func checkInbox(ib *InboxConfig) error {
	dir := strings.TrimSpace(ib.Dir)
	if dir == "" {
		return errors.New("inbox.dir is required when inbox is set")
	}
	if out := strings.TrimSpace(ib.OutDir); out != "" && filepath.Clean(out) == filepath.Clean(dir) {
		return errors.New("inbox.out_dir must differ from inbox.dir")
	}
	if spec := strings.TrimSpace(ib.Rescan); spec != "" {
		if _, err := rescanParser.Parse(spec); err != nil {
			return fmt.Errorf("inbox.rescan %q: %w", spec, err)
		}
	}
	if tz := strings.TrimSpace(ib.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("inbox.timezone: %w", err)
		}
	}
	return nil
}
